package threadtask

import (
	"fmt"
	"time"
)

// linkPhase is where a link's executor is within one step, so a stop that
// lands mid-wait resumes at exactly the right point (spec §4.3's
// continue semantics).
type linkPhase int

const (
	phaseStartDelay linkPhase = iota // waiting out Start's initial delay
	phaseAction                      // about to (re)invoke the action
	phaseGap                         // waiting between two Repeated/Periodic calls
	phaseDuration                    // waiting out the post-action/post-loop duration
)

type stepOutcome int

const (
	stepAdvance stepOutcome = iota
	stepStopped
	stepException
)

// run is the chain-walking executor (spec §4.3), driven on whatever
// execution context Start chose: a fresh goroutine, or inline on the
// caller when threadless.
func (t *Task) run() {
	if !t.fireLifecycleHook(t.root.onStart) {
		return
	}

	for {
		link := t.currentCursor()
		if link == nil {
			t.finish()
			return
		}
		switch t.runLink(link) {
		case stepAdvance:
			t.advance(link)
		case stepStopped, stepException:
			return
		}
	}
}

func (t *Task) currentCursor() *Task {
	r := t.root
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

func (t *Task) advance(link *Task) {
	r := t.root
	r.mu.Lock()
	r.cursor = link.next
	r.mu.Unlock()
}

// runLink drives one chain link through its phases: an optional start
// delay, the action (looped, for Repeated/Periodic), an optional
// inter-call gap, and an optional post-loop duration wait.
func (t *Task) runLink(link *Task) stepOutcome {
	for {
		switch link.phase {
		case phaseStartDelay:
			if !t.wait(link, link.residual) {
				return stepStopped
			}
			link.phase = phaseAction

		case phaseAction:
			if t.shouldStop() {
				t.doStop(link)
				return stepStopped
			}

			result, elapsed, actErr := t.invokeAction(link)
			if actErr != nil {
				handled, outcome := t.handleException(link, actErr)
				if !handled {
					return outcome
				}
				result = nil
			}

			switch link.kind {
			case kindOnce, kindSleep:
				link.phase = phaseDuration
				link.residual = 0

			case kindRepeated, kindPeriodic:
				link.cnt++
				sig, sigErr := t.nextSignal(link, result)
				if sigErr != nil {
					handled, outcome := t.handleException(link, sigErr)
					if !handled {
						return outcome
					}
					sig = StopLoop
				}
				if sig.kind == signalStop || t.numExhausted(link) {
					link.phase = phaseDuration
					link.residual = 0
				} else {
					link.phase = phaseGap
					link.residual = t.gapDelay(link, sig, elapsed)
				}
			}

		case phaseGap:
			if link.residual > 0 {
				if !t.wait(link, link.residual) {
					return stepStopped
				}
			}
			link.phase = phaseAction

		case phaseDuration:
			d := link.waitDuration()
			if d > 0 {
				if !t.wait(link, d) {
					return stepStopped
				}
			}
			link.resetLink()
			return stepAdvance
		}
	}
}

func (t *Task) shouldStop() bool {
	r := t.root
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateToStop
}

// wait runs the link's interruptible wait. It reports true when the full
// duration elapsed, false when a stop() interrupted it — in which case
// the link's residual is left holding the unused remainder and the task
// has already been driven to STOPPED.
func (t *Task) wait(link *Task, d time.Duration) bool {
	r := t.root
	r.mu.Lock()
	r.activity = ActivitySleep
	waiter := r.waiter
	r.mu.Unlock()

	remaining := waiter.Wait(d)

	r.mu.Lock()
	r.activity = ActivityNone
	r.mu.Unlock()

	if remaining > 0 {
		link.residual = remaining
		t.doStop(link)
		return false
	}
	link.residual = 0
	return true
}

// invokeAction calls the link's action under ActivityBusy, recovering a
// panic into an error so the caller can run the usual exception climb.
func (t *Task) invokeAction(link *Task) (result any, elapsed time.Duration, err error) {
	r := t.root
	r.mu.Lock()
	r.activity = ActivityBusy
	r.mu.Unlock()

	start := time.Now()
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = toError(p)
			}
		}()
		result = link.action(link.args, link.kwargs)
	}()
	elapsed = time.Since(start)

	r.mu.Lock()
	r.activity = ActivityNone
	r.mu.Unlock()
	return result, elapsed, err
}

func toError(p any) error {
	if e, ok := p.(error); ok {
		return e
	}
	return fmt.Errorf("%v", p)
}

// callGuarded runs fn, turning a panic into an error instead of letting it
// cross into the caller.
func callGuarded(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = toError(p)
		}
	}()
	fn()
	return nil
}

func (t *Task) numExhausted(link *Task) bool {
	if link.num == nil {
		return false
	}
	return link.cnt >= *link.num
}

// nextSignal adapts a Repeated/Periodic action's return value into the
// delay before the next call (spec §4.3, design note §9).
func (t *Task) nextSignal(link *Task, result any) (Signal, error) {
	if link.kind == kindPeriodic {
		sig, err := adaptSignal(result)
		if err != nil {
			return Signal{}, err
		}
		if sig.kind == signalStop {
			return StopLoop, nil
		}
		if link.nextOccurrence != nil {
			return DelaySignal(time.Until(link.nextOccurrence(time.Now()))), nil
		}
		return DelaySignal(link.interval), nil
	}
	return adaptSignal(result)
}

// gapDelay honors WithNettoTime: by default the action's own run time is
// subtracted from the requested gap so repeat calls land on a fixed
// cadence; with netto timing, the action's duration is added on top.
func (t *Task) gapDelay(link *Task, sig Signal, elapsed time.Duration) time.Duration {
	if sig.kind != signalDelay {
		return 0
	}
	d := sig.delay
	if !link.nettoTime {
		d -= elapsed
		if d < 0 {
			d = 0
		}
	}
	return d
}

// fireLifecycleHook invokes a head-level hook (on_start/on_stop/on_cont/
// on_final), climbing the exception hierarchy on a panic (open question
// #3: hook failures are handled exactly like action failures). It reports
// whether the caller should proceed as if the hook had simply succeeded.
func (t *Task) fireLifecycleHook(hook Hook) bool {
	if !hook.isSet() {
		return true
	}
	err := callGuarded(hook.invoke)
	if err == nil {
		return true
	}
	handled, _ := t.handleException(t.root, err)
	return handled
}

// doStop runs the head's on_stop hook and transitions to STOPPED, cursor
// parked at link so a later cont() resumes exactly here. The task stays in
// its parent's children set, so the parent's Cont resumes it.
func (t *Task) doStop(link *Task) {
	r := t.root
	r.mu.Lock()
	r.cursor = link
	r.mu.Unlock()

	if !t.fireLifecycleHook(r.onStop) {
		return
	}

	r.mu.Lock()
	r.state = StateStopped
	r.activity = ActivityNone
	r.mu.Unlock()
	r.notifyDone()
}

// finish runs the head's on_final hook and transitions to FINISHED.
func (t *Task) finish() {
	r := t.root
	if !t.fireLifecycleHook(r.onFinal) {
		return
	}
	r.mu.Lock()
	r.state = StateFinished
	r.activity = ActivityNone
	r.cursor = nil
	r.mu.Unlock()
	r.notifyDone()
	r.deregisterFromParent()
}

// findHandler climbs the chain-and-tree hierarchy (spec §4.5, steps 1-4):
// the failing link's own handler, then its chain head's, then each
// ancestor's head in turn. It also reports the topmost task visited, the
// target of the default handler's stop() call when nothing is found.
func (t *Task) findHandler(link *Task) (ExcHandler, *Task) {
	if link.excHandler != nil {
		return link.excHandler, t.root
	}
	head := t.root
	if head.excHandler != nil {
		return head.excHandler, head
	}
	top := head
	for p := head.parent; p != nil; p = p.parent {
		top = p
		if p.excHandler != nil {
			return p.excHandler, p
		}
	}
	return nil, top
}

// handleException implements spec §4.5 steps 2-5. It reports whether a
// handler resolved the failure (the executor should proceed as if the
// action had succeeded) and, if not, the outcome the caller should return.
func (t *Task) handleException(link *Task, origErr error) (bool, stepOutcome) {
	handler, top := t.findHandler(link)
	if handler != nil {
		if perr := callGuarded(func() { handler(origErr) }); perr == nil {
			return true, stepAdvance
		}
		// the handler itself panicked: that becomes the new unhandled
		// error, resolved by the default handler at the same top task.
	}
	return false, t.defaultHandle(top, origErr)
}

// defaultHandle is step 5 of spec §4.5: stop the topmost visited task,
// then terminate this failing task's own executor, recording the error
// for LastError rather than crashing the process with an unrecovered
// panic (see DESIGN.md for why re-raising literally is not viable in Go).
//
// top.Stop() runs even when top is this task's own head: Stop() only
// flips state and fans out to whatever children are registered right
// now (tree.go), it never blocks on this executor's own completion, so
// there's no deadlock risk. Skipping it when top == t.root was a bug —
// it left any children this task had registered running forever while
// the task that owned them went STOPPED.
func (t *Task) defaultHandle(top *Task, origErr error) stepOutcome {
	_ = top.Stop()
	r := t.root
	r.mu.Lock()
	r.lastErr = fmt.Errorf("threadtask: task %s: unhandled action error: %w", r.id, origErr)
	r.state = StateStopped
	r.activity = ActivityNone
	r.mu.Unlock()
	r.notifyDone()
	r.deregisterFromParent()
	return stepException
}

func (t *Task) notifyDone() {
	t.mu.Lock()
	ch := t.doneCh
	t.doneCh = nil
	t.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}
