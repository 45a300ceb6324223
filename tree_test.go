package threadtask

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeStopPropagatesToChildren(t *testing.T) {
	parent := New(func(Args, Kwargs) any { return nil }, WithDuration(time.Second))

	var childRan int32
	child := New(func(Args, Kwargs) any {
		atomic.AddInt32(&childRan, 1)
		return nil
	}, WithDuration(time.Second))

	require.NoError(t, parent.Start())
	require.NoError(t, child.Start(WithParent(parent)))
	waitForState(t, child, StateStarted, time.Second)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&childRan) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, parent.Stop())
	waitForState(t, parent, StateStopped, time.Second)
	waitForState(t, child, StateStopped, time.Second)

	assert.Equal(t, int32(1), atomic.LoadInt32(&childRan))
}

func TestTreeContPropagatesToStoppedChildren(t *testing.T) {
	parent := New(func(Args, Kwargs) any { return nil }, WithDuration(60*time.Millisecond))
	child := New(func(Args, Kwargs) any { return nil }, WithDuration(60*time.Millisecond))

	require.NoError(t, parent.Start())
	require.NoError(t, child.Start(WithParent(parent)))
	waitForState(t, child, StateStarted, time.Second)

	require.NoError(t, parent.Stop())
	waitForState(t, parent, StateStopped, time.Second)
	waitForState(t, child, StateStopped, time.Second)

	require.NoError(t, parent.Cont())
	require.NoError(t, parent.Join())
	require.NoError(t, child.Join())

	assert.Equal(t, StateFinished, parent.State())
	assert.Equal(t, StateFinished, child.State())
}

func TestJoinChildReportsActivityJoin(t *testing.T) {
	child := New(func(Args, Kwargs) any { return nil }, WithDuration(80*time.Millisecond))

	var parent *Task
	var sawJoin int32
	observed := make(chan struct{})
	parent = New(func(Args, Kwargs) any {
		if err := child.Start(WithParent(parent)); err != nil {
			return nil
		}
		go func() {
			deadline := time.Now().Add(200 * time.Millisecond)
			for time.Now().Before(deadline) {
				if parent.Activity() == ActivityJoin {
					atomic.StoreInt32(&sawJoin, 1)
					break
				}
				time.Sleep(time.Millisecond)
			}
			close(observed)
		}()
		_ = parent.JoinChild(child)
		return nil
	})

	require.NoError(t, parent.Start())
	require.NoError(t, parent.Join())
	<-observed

	assert.Equal(t, int32(1), atomic.LoadInt32(&sawJoin))
}

func TestThreadlessChildJoinDegeneratesToParent(t *testing.T) {
	parent := New(func(Args, Kwargs) any { return nil })
	var ran int32
	child := New(func(Args, Kwargs) any {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	require.NoError(t, parent.Start())
	require.NoError(t, child.Start(WithParent(parent), Threadless()))

	// Threadless join degenerates to joining parent (spec §4.4): by the
	// time child.Start returns, its inline action already ran, so this
	// just proves Join doesn't hang waiting on a channel of its own.
	require.NoError(t, child.Join())
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}
