// Package testhelpers provides shared utilities for testing Hatch
package testhelpers

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/warrenburton/Hatch/internal/config"
)

// TestConfig returns a configuration for root tuned for tests: gitignore
// off, a short watch debounce and a small worker pool.
func TestConfig(root string) *config.Config {
	cfg := config.Default(root)
	cfg.Project.Name = "test-project"
	cfg.Index.RespectGitignore = false
	cfg.Index.WatchDebounceMs = 20
	cfg.Performance.ParallelFileWorkers = 4
	return cfg
}

// WaitFor waits for a condition to become true with timeout
// Usage:
//
//	testhelpers.WaitFor(t, func() bool {
//	    return len(seen()) > 0
//	}, 5*time.Second)
func WaitFor(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Condition not met within %v", timeout)
			return
		}
	}
}

// AssertNoLeaks verifies that no goroutines outlive the test. Call it with
// defer at the top of the test.
func AssertNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	if err := goleak.Find(opts...); err != nil {
		t.Errorf("Goroutine leak detected: %v", err)
	}
}

// SkipIfShort skips the test if -short flag is provided
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("Skipping in short mode: %s", reason)
	}
}
