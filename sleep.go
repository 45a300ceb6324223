package threadtask

import "time"

// NewSleep creates a Task whose action does nothing: the link's duration
// is the whole point, and it can still be stopped and continued like any
// other wait (spec §3: Sleep "is a specialization where the whole task
// is a duration").
func NewSleep(d time.Duration, opts ...Option) *Task {
	t := newTask(kindSleep, doNothing, opts)
	t.duration = &d
	return t
}

func doNothing(Args, Kwargs) any { return nil }
