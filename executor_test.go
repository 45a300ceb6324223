package threadtask

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForState(t *testing.T, task *Task, want State, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if task.State() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("task never reached state %s, still %s", want, task.State())
}

func TestTwoLinkChainRunsInOrder(t *testing.T) {
	var mu sync.Mutex
	var outputs []string
	record := func(s string) {
		mu.Lock()
		outputs = append(outputs, s)
		mu.Unlock()
	}

	hello := New(func(Args, Kwargs) any {
		record("hello,")
		return nil
	}, WithDuration(30*time.Millisecond))

	world := New(func(Args, Kwargs) any {
		record("world!")
		return nil
	})

	require.NoError(t, hello.Append(world))
	require.NoError(t, hello.Start())
	require.NoError(t, hello.Join())

	assert.Equal(t, StateFinished, hello.State())
	assert.Equal(t, []string{"hello,", "world!"}, outputs)
}

func TestStopMidDelayThenContinuePreservesResidual(t *testing.T) {
	task := New(func(Args, Kwargs) any { return nil }, WithDuration(200*time.Millisecond))

	require.NoError(t, task.Start())
	start := time.Now()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, task.Stop())
	waitForState(t, task, StateStopped, time.Second)

	time.Sleep(150 * time.Millisecond) // stop-to-cont gap
	require.NoError(t, task.Cont())
	require.NoError(t, task.Join())

	total := time.Since(start)
	// Residual conservation: total wall time is duration + gap (~350ms),
	// not duration + elapsed-before-stop + gap (~400ms).
	assert.InDelta(t, 350, total.Milliseconds(), 80)
	assert.Equal(t, StateFinished, task.State())
}

func TestPeriodicWithCap(t *testing.T) {
	var count int32

	task := NewPeriodic(20*time.Millisecond, func(Args, Kwargs) any {
		atomic.AddInt32(&count, 1)
		return nil
	}, WithNum(3))

	require.NoError(t, task.Start())
	require.NoError(t, task.Join())

	assert.Equal(t, int32(3), atomic.LoadInt32(&count))
	assert.Equal(t, StateFinished, task.State())
}

func TestRepeatedHonorsReturnProtocol(t *testing.T) {
	delays := []any{5, 4, 3, 2, 1, 0, -1}
	var calls int32

	task := NewRepeated(func(Args, Kwargs) any {
		i := atomic.AddInt32(&calls, 1) - 1
		if int(i) >= len(delays) {
			return true
		}
		// scale seconds down so the test runs fast: treat each unit as 5ms.
		v := delays[i]
		if n, ok := v.(int); ok && n > 0 {
			return DelaySignal(time.Duration(n) * 5 * time.Millisecond)
		}
		return v
	})

	require.NoError(t, task.Start())
	require.NoError(t, task.Join())

	assert.EqualValues(t, len(delays), calls)
	assert.Equal(t, StateFinished, task.State())
}

func TestRestartIdempotence(t *testing.T) {
	var mu sync.Mutex
	var outputs []string

	task := New(func(Args, Kwargs) any {
		mu.Lock()
		outputs = append(outputs, "ran")
		mu.Unlock()
		return nil
	})

	require.NoError(t, task.Start())
	require.NoError(t, task.Join())
	require.NoError(t, task.Start())
	require.NoError(t, task.Join())

	assert.Equal(t, []string{"ran", "ran"}, outputs)
}

func TestStopBoundedness(t *testing.T) {
	task := New(func(Args, Kwargs) any {
		time.Sleep(30 * time.Millisecond)
		return nil
	}, WithDuration(5*time.Second))

	require.NoError(t, task.Start())
	time.Sleep(5 * time.Millisecond)

	start := time.Now()
	require.NoError(t, task.Stop())
	require.NoError(t, task.Join())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 200*time.Millisecond)
	assert.Equal(t, StateStopped, task.State())
}

func TestSleepTaskWaitsThenFinishes(t *testing.T) {
	task := NewSleep(30 * time.Millisecond)
	start := time.Now()
	require.NoError(t, task.Start())
	require.NoError(t, task.Join())

	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
	assert.Equal(t, StateFinished, task.State())
}

func TestConfigWritesRejectedWhileStarted(t *testing.T) {
	task := New(func(Args, Kwargs) any {
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	require.NoError(t, task.Start())

	err := task.SetDuration(time.Second)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, task.Join())
}

func TestStartRejectedWhileStarted(t *testing.T) {
	task := New(func(Args, Kwargs) any {
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	require.NoError(t, task.Start())

	err := task.Start()
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, task.Join())
}

func TestNegativeDurationRejected(t *testing.T) {
	task := New(func(Args, Kwargs) any { return nil })
	err := task.SetDuration(-time.Second)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
