package threadtask

import "time"

// Deadline is an absolute point in time recomputed from a cron
// expression, the building block spec §5 recommends for composing a
// timeout: "there is no built-in timeout; users compose one with a
// Periodic that checks a deadline." Grounded on the teacher's job.go
// Job/JobConfig next-launch computation, retargeted from "next job
// launch" to "next deadline check".
type Deadline struct {
	Name    string
	Pattern string
	At      time.Time
}

// NewDeadline computes the first occurrence of pattern after now.
func NewDeadline(name, pattern string) (*Deadline, error) {
	next, err := nextCronOccurrence(pattern, time.Now())
	if err != nil {
		return nil, err
	}
	return &Deadline{Name: name, Pattern: pattern, At: next}, nil
}

// Due reports whether the deadline has passed.
func (d *Deadline) Due() bool {
	return !time.Now().Before(d.At)
}

// Advance recomputes At as the next occurrence after now, so a single
// Deadline can keep driving a recurring check.
func (d *Deadline) Advance() error {
	next, err := nextCronOccurrence(d.Pattern, time.Now())
	if err != nil {
		return err
	}
	d.At = next
	return nil
}

// DeadlineAction wraps action so a Periodic or Repeated built from it
// stops as soon as d is due, without action itself needing to know about
// deadlines.
func DeadlineAction(d *Deadline, action ActionFunc) ActionFunc {
	return func(args Args, kwargs Kwargs) any {
		if d.Due() {
			return StopLoop
		}
		return action(args, kwargs)
	}
}
