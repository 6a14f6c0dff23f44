// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// lastCleanupAt holds the UnixNano time of the last cleanup run.
var lastCleanupAt atomic.Int64

// DoCleanup starts a background cleanup when CleanupInterval has elapsed since
// the previous one. Only one caller wins the race for each interval.
func DoCleanup() {
	now := timeNow()
	last := lastCleanupAt.Load()

	if last == 0 {
		lastCleanupAt.CompareAndSwap(0, now.UnixNano())

		return
	}

	if now.Sub(time.Unix(0, last)) < CleanupInterval {
		return
	}

	if !lastCleanupAt.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	go func() {
		removed := cleanupExpiredLimiters(now)

		log.Info().
			Time("start", now).
			Int("removed", removed).
			Msg("Limiter cleanup")
	}()
}
