package fleet

import (
	"fmt"
	"time"
)

// Block runs action once immediately, then re-runs it every retryInterval for
// as long as predicate holds and maxWait has not elapsed. Action and
// predicate communicate through state the caller shares between them; the
// loop itself reports nothing about why it stopped. In particular, hitting
// the deadline is not an error here; the caller inspects its shared state
// afterwards and decides.
//
// The wait is a real sleep on the calling goroutine. Fleet sweeps are
// strictly sequential, so there is nothing to overlap with.
func Block(maxWait time.Duration, predicate func() bool, action func(), retryInterval time.Duration) error {
	if retryInterval < time.Millisecond {
		return fmt.Errorf("fleet: retry interval must be at least 1ms, got %v", retryInterval)
	}
	start := time.Now()
	action()
	for predicate() && time.Since(start) <= maxWait {
		time.Sleep(retryInterval)
		action()
	}
	return nil
}
