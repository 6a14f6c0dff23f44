// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/petdor/petdor/config"
)

// testStateMutex serializes tests that mutate package-level state.
var testStateMutex sync.Mutex

// mockClock is a controllable replacement for timeNow.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func (m *mockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

func (m *mockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
}

// setupLimiterTest installs a mock clock and a test configuration, and clears
// all limiters. Everything is restored when the test completes.
//
// Call it once per top-level test; subtests share the lock.
func setupLimiterTest(t *testing.T) *mockClock {
	t.Helper()

	testStateMutex.Lock()

	origConfig := config.Global
	origTimeNow := timeNow

	config.Global.Limiter.Enabled = true
	config.Global.Limiter.IPv4Prefix = 24
	config.Global.Limiter.IPv6Prefix = 48
	config.Global.Limiter.Rate = 1
	config.Global.Limiter.Burst = 5
	config.Global.Limiter.PassIPs = []string{"127.0.0.1"}
	config.Global.Limiter.BlockIPs = []string{"10.0.0.1"}

	clock := &mockClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	timeNow = clock.Now

	limiters.Clear()
	lastCleanupAt.Store(0)

	t.Cleanup(func() {
		limiters.Clear()
		lastCleanupAt.Store(0)

		timeNow = origTimeNow
		config.Global = origConfig

		testStateMutex.Unlock()
	})

	return clock
}
