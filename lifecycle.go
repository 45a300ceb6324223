package threadtask

import (
	"fmt"
	"time"
)

// StartOption configures a single Start call (spec §6: "start(delay = 0,
// threadless = false)").
type StartOption func(*startConfig)

type startConfig struct {
	delay      time.Duration
	threadless bool
	parent     *Task
}

// WithStartDelay honors a delay before the first link's action runs.
func WithStartDelay(d time.Duration) StartOption {
	return func(c *startConfig) { c.delay = d }
}

// Threadless runs the task inline on the caller's goroutine instead of
// spawning a fresh one. Its Join then degenerates to joining the parent
// (spec §4.4's documented foot-gun) — only meaningful combined with
// WithParent.
func Threadless() StartOption {
	return func(c *startConfig) { c.threadless = true }
}

// WithParent registers this task as a child of parent for the duration of
// its run, so parent.Stop()/Cont() propagate to it (spec §4.4). Go has no
// thread-local "currently executing task" to detect this automatically
// the way the original implementation does; since an action is always a
// closure that already captures whatever *Task variables it needs, asking
// the caller to name the parent explicitly is the idiomatic rendering —
// see DESIGN.md.
func WithParent(parent *Task) StartOption {
	return func(c *startConfig) { c.parent = parent.Root() }
}

// Start transitions CREATED/STOPPED/FINISHED into STARTED (spec §4.2,
// §6). delay is honored before the first link's action; threadless runs
// the executor inline on the caller instead of a fresh goroutine.
func (t *Task) Start(opts ...StartOption) error {
	if !t.isRoot() {
		return fmt.Errorf("%w: cannot start a non-head link", ErrInvalidState)
	}
	if err := t.checkUsable(); err != nil {
		return err
	}

	cfg := &startConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.delay < 0 {
		return fmt.Errorf("%w: start delay must not be negative", ErrInvalidArgument)
	}

	t.mu.Lock()
	switch t.state {
	case StateStarted, StateToStop, StateToContinue:
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot start task in state %s", ErrInvalidState, t.state)
	}
	t.resetChain()
	t.waiter.drain()
	first := t.firstLink()
	if cfg.delay > 0 {
		first.phase = phaseStartDelay
		first.residual = cfg.delay
	}
	t.cursor = first
	t.state = StateStarted
	t.activity = ActivityNone
	t.threadless = cfg.threadless
	t.startDelay = cfg.delay
	t.doneCh = make(chan struct{})
	t.lastErr = nil
	t.parent = cfg.parent
	t.mu.Unlock()

	if cfg.parent != nil {
		cfg.parent.registerChild(t)
	}

	if cfg.threadless {
		t.run()
	} else {
		go t.run()
	}
	return nil
}

// Stop asynchronously and cooperatively requests that the task unwind to
// STOPPED, first dispatching stop() to every current child (spec §4.4).
// Idempotent in already-stopped states.
func (t *Task) Stop() error {
	if !t.isRoot() {
		return fmt.Errorf("%w: cannot stop a non-head link", ErrInvalidState)
	}
	t.mu.Lock()
	switch t.state {
	case StateCreated:
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot stop a task that was never started", ErrInvalidState)
	case StateStopped, StateToStop, StateFinished:
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	t.stopChildren(t.snapshotChildren())

	t.mu.Lock()
	if t.state != StateStarted && t.state != StateToContinue {
		t.mu.Unlock()
		return nil
	}
	t.state = StateToStop
	t.timeCalledStop = time.Now()
	t.mu.Unlock()

	t.waiter.Interrupt()
	return nil
}

// Cont resumes a STOPPED task (spec §4.2, §4.3's continue semantics). If
// called during TO_STOP it blocks until STOPPED then proceeds (Open
// Question #1's resolution). It is a silent no-op on FINISHED.
func (t *Task) Cont() error {
	if !t.isRoot() {
		return fmt.Errorf("%w: cannot continue a non-head link", ErrInvalidState)
	}
	if err := t.checkUsable(); err != nil {
		return err
	}

	t.mu.Lock()
	state := t.state
	t.mu.Unlock()

	if state == StateFinished {
		return nil
	}
	if state == StateToStop {
		if err := t.Join(); err != nil {
			return err
		}
		t.mu.Lock()
		state = t.state
		t.mu.Unlock()
		if state == StateFinished {
			return nil
		}
	}

	t.mu.Lock()
	if t.state != StateStopped {
		s := t.state
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot continue task in state %s", ErrInvalidState, s)
	}
	t.state = StateToContinue
	t.timeCalledCont = time.Now()
	t.doneCh = make(chan struct{})
	t.mu.Unlock()

	children := t.snapshotChildren()
	if t.parent != nil {
		t.parent.registerChild(t)
	}
	t.contChildren(children)

	runner := func() {
		t.waiter.drain()
		t.mu.Lock()
		t.state = StateStarted
		t.mu.Unlock()
		if !t.fireLifecycleHook(t.onCont) {
			return
		}
		// Walk the chain from the parked cursor without run(), whose
		// on_start hook belongs to Start only.
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
	if t.threadless {
		runner()
	} else {
		go runner()
	}
	return nil
}

// Join blocks until the task reaches a terminal or stopped state. On a
// threadless task it degenerates to joining the parent's own execution
// context (spec §4.4's documented foot-gun), since a threadless task has
// no execution context of its own to wait on.
func (t *Task) Join() error {
	if !t.isRoot() {
		return fmt.Errorf("%w: cannot join a non-head link", ErrInvalidState)
	}

	t.mu.Lock()
	threadless := t.threadless
	parent := t.parent
	state := t.state
	ch := t.doneCh
	t.mu.Unlock()

	if threadless && parent != nil {
		return parent.Join()
	}
	if state == StateCreated || state == StateStopped || state == StateFinished {
		return nil
	}
	if ch != nil {
		<-ch
	}
	return nil
}
