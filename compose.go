package threadtask

import "fmt"

// Append splices other's chain onto the tail of t's (spec §2, §6). other
// must itself be a chain head in a configurable state; after this call it
// is consumed — its own head-only operations (Start/Stop/Cont/Join/
// Append) fail with ErrInvalidState. The merged chain's head is t.
func (t *Task) Append(other *Task) error {
	if !t.isRoot() {
		return fmt.Errorf("%w: cannot append onto a non-head link", ErrInvalidState)
	}
	if !other.isRoot() {
		return fmt.Errorf("%w: appended task must itself be a chain head", ErrInvalidArgument)
	}
	if t == other {
		return fmt.Errorf("%w: cannot append a task to itself", ErrInvalidArgument)
	}

	// Lock both heads in a fixed order independent of which is the
	// receiver, so a.Append(b) racing with b.Append(a) on two goroutines
	// can't each grab one lock and wait on the other.
	first, second := t, other
	if other.id < t.id {
		first, second = other, t
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if err := t.checkUsable(); err != nil {
		return err
	}
	if !t.configurable() {
		return fmt.Errorf("%w: cannot append to task in state %s", ErrInvalidState, t.state)
	}
	if err := other.checkUsable(); err != nil {
		return err
	}
	if !other.configurable() {
		return fmt.Errorf("%w: cannot append a task in state %s", ErrInvalidState, other.state)
	}

	tail := t.lastLink()
	tail.next = other
	for link := other; link != nil; link = link.next {
		link.root = t
	}
	other.consumed = true
	return nil
}

// Concat is the variadic form of Append, folded left: concat(t1, t2, t3)
// is equivalent to t1.Append(t2); t1.Append(t3).
func Concat(first *Task, rest ...*Task) (*Task, error) {
	for _, other := range rest {
		if err := first.Append(other); err != nil {
			return nil, err
		}
	}
	return first, nil
}
