package threadtask

// NewRepeated creates a Task that re-invokes its action based on the
// action's own return value (spec §3, §9):
//
//	true, -1         -> stop the loop
//	false, nil, 0     -> call again immediately
//	positive number   -> wait that many seconds, then call again
//
// Returning a Signal directly (Immediate, StopLoop, DelaySignal(d)) is
// also accepted and is the idiomatic Go way to express the same protocol.
func NewRepeated(action ActionFunc, opts ...Option) *Task {
	return newTask(kindRepeated, action, opts)
}
