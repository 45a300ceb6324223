package threadtask

import "time"

// Waiter is the interruptible timing primitive described in spec §4.1. It
// sleeps for up to a given duration and reports how much of that duration
// was left when it was signalled to return early. A zero Waiter sleeps but
// can never be interrupted; use NewWaiter.
//
// Interrupt must never need the owning Task's mutex: a stop() call that
// arrives while the executor holds its task's lock must still be able to
// wake a sleeping Waiter without deadlocking, so the wakeup channel is the
// only state Interrupt touches.
type Waiter struct {
	wake chan struct{}
}

// NewWaiter returns a ready-to-use Waiter.
func NewWaiter() *Waiter {
	return &Waiter{wake: make(chan struct{}, 1)}
}

// Wait sleeps for d, using a steady clock so wall-clock adjustments never
// shorten or extend it. If Interrupt was called before Wait was entered,
// Wait returns immediately with remaining == d. Otherwise it returns the
// unused remainder of d, zero if the full duration elapsed.
func (w *Waiter) Wait(d time.Duration) (remaining time.Duration) {
	if d <= 0 {
		return 0
	}

	select {
	case <-w.wake:
		return d
	default:
	}

	start := time.Now()
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-w.wake:
		remaining = d - time.Since(start)
		if remaining < 0 {
			remaining = 0
		}
		return remaining
	case <-timer.C:
		return 0
	}
}

// Interrupt signals a currently running (or not yet started) Wait to
// return early. It is safe to call from any goroutine, concurrently with
// Wait, and is idempotent until the next Wait call consumes it.
func (w *Waiter) Interrupt() {
	select {
	case w.wake <- struct{}{}:
	default:
		// a previous interrupt is still pending, nothing more to do
	}
}

// drain discards a pending Interrupt that was never consumed by a Wait,
// e.g. because the stop it announced was already caught by a state check
// before any wait was entered. Without this, that stale wakeup would fire
// the next unrelated Wait after a later cont().
func (w *Waiter) drain() {
	select {
	case <-w.wake:
	default:
	}
}
