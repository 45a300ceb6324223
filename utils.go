package threadtask

// Or returns first unless it is the zero value, in which case it returns
// second — used by Schedule.Interval to ignore an accidental zero rather
// than let it zero out the underlying rrule step.
func Or[T comparable](first, second T) T {
	var zero T

	if first == zero {
		return second
	}

	return first
}

// Apply runs every callback against initial in order and returns it,
// letting functional-option constructors (New, NewRepeated, ...) build a
// Task with a single expression.
func Apply[T any](initial *T, callbacks []func(*T)) *T {
	for _, callback := range callbacks {
		callback(initial)
	}

	return initial
}
