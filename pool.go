package threadtask

import (
	"context"
	"sync"
)

// Pool is a bounded worker pool: count goroutines drain work sent on the
// returned channel, each invoking consumer. Kept from the teacher's
// pool.go almost verbatim — a generic enough shape that it needs no
// domain-specific rework, only a ctx.Done() exit so it composes with
// StartChildren's cancellation.
func Pool[T any](ctx context.Context, count int, consumer func(*T)) chan *T {
	ch := make(chan *T)

	for i := 0; i < count; i++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-ch:
					if !ok {
						return
					}
					consumer(item)
				}
			}
		}()
	}

	return ch
}

// StartChildren launches every task in children as a child of parent,
// starting and joining each, with at most concurrency running at once.
// It is the bounded-fan-out complement to WithParent, for an action that
// wants to spawn many siblings without starting them all in one breath.
// Canceling ctx stops dispatching further children; already-started ones
// still run to completion or until parent.Stop() reaches them.
func StartChildren(ctx context.Context, parent *Task, children []*Task, concurrency int, opts ...StartOption) {
	var wg sync.WaitGroup

	ch := Pool(ctx, concurrency, func(child **Task) {
		defer wg.Done()
		c := *child
		childOpts := make([]StartOption, 0, len(opts)+1)
		childOpts = append(childOpts, opts...)
		childOpts = append(childOpts, WithParent(parent))
		if err := c.Start(childOpts...); err != nil {
			return
		}
		_ = c.Join()
	})
	defer close(ch)

	for _, c := range children {
		c := c
		wg.Add(1)
		select {
		case <-ctx.Done():
			wg.Done()
			return
		case ch <- &c:
		}
	}

	wg.Wait()
}
