package threadtask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaiterFullElapse(t *testing.T) {
	w := NewWaiter()
	start := time.Now()
	remaining := w.Wait(50 * time.Millisecond)
	assert.Zero(t, remaining)
	assert.WithinDuration(t, start.Add(50*time.Millisecond), time.Now(), 25*time.Millisecond)
}

func TestWaiterInterruptedEarly(t *testing.T) {
	w := NewWaiter()
	go func() {
		time.Sleep(20 * time.Millisecond)
		w.Interrupt()
	}()

	remaining := w.Wait(time.Second)
	assert.Greater(t, remaining, time.Duration(0))
	assert.Less(t, remaining, time.Second)
}

func TestWaiterInterruptBeforeWait(t *testing.T) {
	w := NewWaiter()
	w.Interrupt()

	start := time.Now()
	remaining := w.Wait(200 * time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, remaining)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWaiterInterruptIdempotentUntilConsumed(t *testing.T) {
	w := NewWaiter()
	w.Interrupt()
	w.Interrupt()
	w.Interrupt()

	remaining := w.Wait(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, remaining)

	remaining = w.Wait(10 * time.Millisecond)
	assert.Zero(t, remaining)
}

func TestWaiterZeroDuration(t *testing.T) {
	w := NewWaiter()
	assert.Zero(t, w.Wait(0))
}
