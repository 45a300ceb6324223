package threadtask

import "time"

// Option configures a Task at construction time. Task, Repeated, Periodic
// and Sleep all accept the same Option vocabulary; a few (WithNum,
// WithNettoTime) only make sense on Repeated/Periodic and are ignored
// otherwise.
type Option func(*Task)

// WithArgs binds the positional arguments passed to the action on every
// invocation.
func WithArgs(args Args) Option {
	return func(t *Task) { t.args = args }
}

// WithKwargs binds the named arguments passed to the action on every
// invocation.
func WithKwargs(kwargs Kwargs) Option {
	return func(t *Task) { t.kwargs = kwargs }
}

// WithDuration sets a post-action wait for this link: once the action (or
// its repeat loop) completes, the chain waits d before advancing.
func WithDuration(d time.Duration) Option {
	return func(t *Task) { t.duration = &d }
}

// WithOnStart sets the hook fired once, the first time a task enters
// STARTED.
func WithOnStart(fn HookFunc, args Args, kwargs Kwargs) Option {
	return func(t *Task) { t.onStart = Hook{Fn: fn, Args: args, Kwargs: kwargs} }
}

// WithOnStop sets the hook fired exactly once per stop cycle, before
// STOPPED becomes visible.
func WithOnStop(fn HookFunc, args Args, kwargs Kwargs) Option {
	return func(t *Task) { t.onStop = Hook{Fn: fn, Args: args, Kwargs: kwargs} }
}

// WithOnCont sets the hook fired exactly once per continue cycle, before
// any further action runs.
func WithOnCont(fn HookFunc, args Args, kwargs Kwargs) Option {
	return func(t *Task) { t.onCont = Hook{Fn: fn, Args: args, Kwargs: kwargs} }
}

// WithOnFinal sets the hook fired exactly once when the task reaches
// FINISHED naturally.
func WithOnFinal(fn HookFunc, args Args, kwargs Kwargs) Option {
	return func(t *Task) { t.onFinal = Hook{Fn: fn, Args: args, Kwargs: kwargs} }
}

// WithExcHandler sets this link's exception handler, consulted first when
// this specific link's action fails (spec §4.5).
func WithExcHandler(fn ExcHandler) Option {
	return func(t *Task) { t.excHandler = fn }
}

// WithNum caps the number of iterations of a Repeated/Periodic loop.
func WithNum(n int) Option {
	return func(t *Task) { t.num = &n }
}

// WithNettoTime makes a Repeated/Periodic inter-call gap "netto": the
// full gap is waited after the action returns, so the action's own
// execution time adds to the spacing between calls. Without it, that
// execution time is subtracted from the gap and calls land on a fixed
// cadence.
func WithNettoTime() Option {
	return func(t *Task) { t.nettoTime = true }
}
