package threadtask

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
)

type taskKind int

const (
	kindOnce taskKind = iota
	kindRepeated
	kindPeriodic
	kindSleep
)

// Task is both a chain link and, when it is its own root, the head of the
// state machine that drives the whole chain. This mirrors
// original_source/thread_task/__init__.py: a single class plays both
// roles, and only the root's state/activity/children/... fields are ever
// consulted by the executor.
type Task struct {
	mu sync.Mutex

	id   string
	kind taskKind

	action     ActionFunc
	args       Args
	kwargs     Kwargs
	duration   *time.Duration
	onStart    Hook
	onStop     Hook
	onCont     Hook
	onFinal    Hook
	excHandler ExcHandler

	next *Task
	root *Task

	// consumed marks a task that was spliced onto another chain's tail by
	// Append/Concat: its own head-only operations are permanently disabled.
	consumed bool

	num            *int
	interval       time.Duration
	nettoTime      bool
	nextOccurrence func(time.Time) time.Time // overrides interval for CronPeriodic/ScheduleTask

	// per-link resumable bookkeeping, reset whenever this link starts a
	// fresh run and updated as the executor moves through it.
	cnt      int
	phase    linkPhase
	residual time.Duration // pending wait, full or partial, for phase

	// root-only state machine fields
	state          State
	activity       Activity
	cursor         *Task
	children       map[*Task]struct{}
	parent         *Task
	waiter         *Waiter
	threadless     bool
	startDelay     time.Duration
	doneCh         chan struct{}
	lastErr        error
	timeCalledStop time.Time
	timeCalledCont time.Time
}

func newTask(kind taskKind, action ActionFunc, opts []Option) *Task {
	t := &Task{
		id:       xid.New().String(),
		kind:     kind,
		action:   action,
		args:     Args{},
		kwargs:   Kwargs{},
		state:    StateCreated,
		activity: ActivityNone,
		children: map[*Task]struct{}{},
		waiter:   NewWaiter(),
	}
	t.root = t

	fns := make([]func(*Task), len(opts))
	for i, opt := range opts {
		fns[i] = opt
	}

	return Apply(t, fns)
}

// New creates a Task whose action runs exactly once.
func New(action ActionFunc, opts ...Option) *Task {
	return newTask(kindOnce, action, opts)
}

// ID is a process-unique, human readable identifier, handy in logs and in
// exception context (spec §7).
func (t *Task) ID() string { return t.id }

// State reports the task's current lifecycle state. Reading it is always
// consistent with the (state, activity) invariants of spec §4.2: both
// fields live behind the same lock.
func (t *Task) State() State {
	r := t.root
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Activity reports what the task's executor is presently doing.
func (t *Task) Activity() Activity {
	r := t.root
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activity
}

// Root returns the chain's head link. A root task returns itself.
func (t *Task) Root() *Task { return t.root }

func (t *Task) isRoot() bool { return t.root == t }

func (t *Task) configurable() bool {
	switch t.root.state {
	case StateCreated, StateStopped, StateFinished:
		return true
	default:
		return false
	}
}

// checkUsable rejects any head-only operation on a task that was consumed
// by Append/Concat (spec §6: "other is consumed").
func (t *Task) checkUsable() error {
	if t.root.consumed {
		return fmt.Errorf("%w: task was appended into another chain", ErrInvalidState)
	}
	return nil
}

func (t *Task) setConfig(mutate func()) error {
	r := t.root
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := t.checkUsable(); err != nil {
		return err
	}
	if !t.configurable() {
		return fmt.Errorf("%w: cannot configure task in state %s", ErrInvalidState, r.state)
	}
	mutate()
	return nil
}

// SetArgs replaces the action's bound positional arguments. Only legal in
// states CREATED, STOPPED or FINISHED.
func (t *Task) SetArgs(args Args) error {
	return t.setConfig(func() { t.args = args })
}

// Args returns the action's bound positional arguments.
func (t *Task) Args() Args { return t.args }

// SetKwargs replaces the action's bound named arguments.
func (t *Task) SetKwargs(kwargs Kwargs) error {
	return t.setConfig(func() { t.kwargs = kwargs })
}

// Kwargs returns the action's bound named arguments.
func (t *Task) Kwargs() Kwargs { return t.kwargs }

// SetDuration replaces this link's post-action wait.
func (t *Task) SetDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidArgument)
	}
	return t.setConfig(func() { t.duration = &d })
}

// Duration returns this link's configured post-action wait, or false if
// none is set.
func (t *Task) Duration() (time.Duration, bool) {
	if t.duration == nil {
		return 0, false
	}
	return *t.duration, true
}

// SetOnStart replaces the start hook.
func (t *Task) SetOnStart(fn HookFunc, args Args, kwargs Kwargs) error {
	return t.setConfig(func() { t.onStart = Hook{Fn: fn, Args: args, Kwargs: kwargs} })
}

// SetOnStop replaces the stop hook.
func (t *Task) SetOnStop(fn HookFunc, args Args, kwargs Kwargs) error {
	return t.setConfig(func() { t.onStop = Hook{Fn: fn, Args: args, Kwargs: kwargs} })
}

// SetOnCont replaces the continue hook.
func (t *Task) SetOnCont(fn HookFunc, args Args, kwargs Kwargs) error {
	return t.setConfig(func() { t.onCont = Hook{Fn: fn, Args: args, Kwargs: kwargs} })
}

// SetOnFinal replaces the final hook.
func (t *Task) SetOnFinal(fn HookFunc, args Args, kwargs Kwargs) error {
	return t.setConfig(func() { t.onFinal = Hook{Fn: fn, Args: args, Kwargs: kwargs} })
}

// SetExcHandler replaces this link's exception handler.
func (t *Task) SetExcHandler(fn ExcHandler) error {
	return t.setConfig(func() { t.excHandler = fn })
}

// LastError returns the error an unhandled action failure terminated this
// task's most recent run with, or nil.
func (t *Task) LastError() error {
	r := t.root
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (t *Task) resetLink() {
	t.cnt = 0
	t.phase = phaseAction
	t.residual = 0
}

// waitDuration is the length of this link's next post-action/post-loop
// wait: the stored residual if a previous stop interrupted it mid-flight,
// otherwise the link's configured duration.
func (t *Task) waitDuration() time.Duration {
	if t.residual > 0 {
		return t.residual
	}
	if t.duration != nil {
		return *t.duration
	}
	return 0
}

func (t *Task) firstLink() *Task { return t.root }

func (t *Task) lastLink() *Task {
	l := t.root
	for l.next != nil {
		l = l.next
	}
	return l
}

func (t *Task) resetChain() {
	for link := t.root; link != nil; link = link.next {
		link.resetLink()
	}
}
