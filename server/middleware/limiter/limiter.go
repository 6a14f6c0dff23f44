// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/petdor/petdor/config"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep limiters in memory before cleanup.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.

	// proxyCost is the number of tokens a logo proxy request consumes, since a
	// cache miss triggers an upstream fetch.
	proxyCost = 3
)

var (
	limiters sync.Map   // network -> *limiterWrapper
	timeNow  = time.Now // Wrapper for time.Now, which allows us to mock it in tests.
)

// limiterWrapper holds a rate limiter and additional metadata.
//
// Limiters are associated with an IP network and persist in the limiters sync.Map.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string
	lastAccess time.Time
	mu         sync.Mutex
}

// Init resets the limiter state.
func Init() {
	limiters.Clear()
	lastCleanupAt.Store(timeNow().UnixNano())

	log.Info().
		Int("rate", config.Global.Limiter.Rate).
		Int("burst", config.Global.Limiter.Burst).
		Msg("Limiter enabled")
}

// Fini drops all limiters and logs how many networks were tracked.
func Fini() {
	count := 0

	limiters.Range(func(_, _ any) bool {
		count++

		return true
	})

	limiters.Clear()

	log.Info().Int("networks", count).Msg("Limiter stopped")
}

// checkRateLimit attempts to consume cost tokens from the limiterWrapper and
// reports whether the request is allowed. The cost is capped at the burst so
// an expensive request can still pass once the bucket is full.
func checkRateLimit(limiter *limiterWrapper, networkStr string, cost int) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := timeNow()
	limiter.lastAccess = now

	cost = min(cost, limiter.limiter.Burst())

	if !limiter.limiter.AllowN(now, cost) {
		log.Warn().
			Str("network", networkStr).
			Int("cost", cost).
			Msg("Rate limit exceeded")

		return false
	}

	return true
}

// getOrCreateLimiter returns the limiterWrapper for the given network, creating
// one with the configured rate and burst when none exists.
func getOrCreateLimiter(networkStr string) *limiterWrapper {
	if limWrapper, found := loadLimiterFromMemory(networkStr); found {
		return limWrapper
	}

	limWrapper := newLimiterWrapper(
		float64(config.Global.Limiter.Rate),
		config.Global.Limiter.Burst,
		networkStr,
	)

	actual, _ := limiters.LoadOrStore(networkStr, limWrapper)

	return actual.(*limiterWrapper)
}

// loadLimiterFromMemory tries to load from memory a limiterWrapper
// for a given network.
func loadLimiterFromMemory(network string) (*limiterWrapper, bool) {
	value, ok := limiters.Load(network)
	if !ok {
		return nil, false
	}

	limWrapper, ok := value.(*limiterWrapper)
	if !ok {
		return nil, false
	}

	limWrapper.mu.Lock()
	limWrapper.lastAccess = timeNow()
	limWrapper.mu.Unlock()

	return limWrapper, true
}

func newLimiterWrapper(rateLim float64, burstLim int, network string) *limiterWrapper {
	now := timeNow()

	lim := rate.NewLimiter(rate.Limit(rateLim), burstLim)
	// Start with a full bucket relative to the (possibly mocked) clock.
	lim.SetBurstAt(now, burstLim)

	return &limiterWrapper{
		limiter:    lim,
		network:    network,
		lastAccess: now,
	}
}

// cleanupExpiredLimiters removes limiters that have not been accessed for
// LimiterExpiryDuration before now and returns how many were removed.
func cleanupExpiredLimiters(now time.Time) int {
	removed := 0

	limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			limiters.Delete(key)

			return true
		}

		limWrapper.mu.Lock()
		expired := now.Sub(limWrapper.lastAccess) > LimiterExpiryDuration
		limWrapper.mu.Unlock()

		if expired {
			limiters.Delete(key)

			removed++
		}

		return true
	})

	return removed
}
