package threadtask

import "golang.org/x/sync/errgroup"

// registerChild adds child to the parent's running-children set under the
// parent's own mutex (spec §5: "the parent-child registry is mutated
// under the parent's mutex").
func (t *Task) registerChild(child *Task) {
	r := t.root
	r.mu.Lock()
	r.children[child.root] = struct{}{}
	r.mu.Unlock()
}

func (t *Task) deregisterChild(child *Task) {
	r := t.root
	r.mu.Lock()
	delete(r.children, child.root)
	r.mu.Unlock()
}

// deregisterFromParent removes this task from its parent's children set,
// the weak, non-owning side of spec §4.4: "when a child finishes, it
// removes itself from the parent's children set."
func (t *Task) deregisterFromParent() {
	r := t.root
	r.mu.Lock()
	parent := r.parent
	r.mu.Unlock()
	if parent != nil {
		parent.deregisterChild(r)
	}
}

func (t *Task) snapshotChildren() []*Task {
	r := t.root
	r.mu.Lock()
	defer r.mu.Unlock()
	children := make([]*Task, 0, len(r.children))
	for c := range r.children {
		children = append(children, c)
	}
	return children
}

// stopChildren dispatches stop() to every current child concurrently
// (spec §4.4: "in unspecified order"), using errgroup the same way the
// teacher fans its background listener loops out in service.go.
func (t *Task) stopChildren(children []*Task) {
	var g errgroup.Group
	for _, c := range children {
		c := c
		g.Go(func() error { return c.Stop() })
	}
	_ = g.Wait()
}

// contChildren resumes every child currently STOPPED, concurrently with
// the parent's own resumption (spec §4.4).
func (t *Task) contChildren(children []*Task) {
	var g errgroup.Group
	for _, c := range children {
		c := c
		if c.State() != StateStopped {
			continue
		}
		g.Go(func() error { return c.Cont() })
	}
	_ = g.Wait()
}

// JoinChild blocks until child reaches a terminal or stopped state, the
// way an action explicitly orders itself against a task it started
// (spec §4.3 note 5, §9 suspension point (c)). Unlike a plain
// child.Join() call, it marks this task's own activity as JOIN for the
// duration, so an external State()/Activity() read during that wait
// sees JOIN rather than BUSY.
func (t *Task) JoinChild(child *Task) error {
	r := t.root
	r.mu.Lock()
	prev := r.activity
	r.activity = ActivityJoin
	r.mu.Unlock()

	err := child.Join()

	r.mu.Lock()
	r.activity = prev
	r.mu.Unlock()
	return err
}
