package threadtask

// Args are the bound positional arguments carried alongside an action or
// a hook, passed on every invocation.
type Args []any

// Kwargs are the bound named arguments carried alongside an action or a
// hook, passed on every invocation. Go has no native keyword arguments,
// so this is the map a closure is expected to look values up in.
type Kwargs map[string]any

// ActionFunc is the single invocation object every Link wraps its action
// in (design note §9): bound args/kwargs travel with the Task, and the
// return value, if any, only matters for Repeated/Periodic links, where
// it is adapted into a Signal.
type ActionFunc func(args Args, kwargs Kwargs) any

// HookFunc is a lifecycle callback: on_start, on_stop, on_cont, on_final.
type HookFunc func(args Args, kwargs Kwargs)

// ExcHandler is invoked at most once per failing action, chosen by
// climbing the chain-and-tree hierarchy (spec §4.5). Returning normally
// means "handled, keep going"; panicking (typically with the same err, or
// any other value) re-raises and unwinds that Task's executor.
type ExcHandler func(err error)

// Hook bundles a callback with its bound arguments.
type Hook struct {
	Fn     HookFunc
	Args   Args
	Kwargs Kwargs
}

func (h Hook) invoke() {
	if h.Fn == nil {
		return
	}
	h.Fn(h.Args, h.Kwargs)
}

func (h Hook) isSet() bool {
	return h.Fn != nil
}
