package threadtask

import "errors"

// ErrInvalidState is returned when an operation is attempted from a state
// that forbids it (see Start, Stop and Cont in lifecycle.go for the legal
// transitions).
var ErrInvalidState = errors.New("threadtask: invalid state")

// ErrInvalidArgument is returned when a caller passes a value that
// violates a documented precondition (negative duration, unknown Repeated
// return value, appending a non-root task, ...).
var ErrInvalidArgument = errors.New("threadtask: invalid argument")
