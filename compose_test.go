package threadtask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendConsumesOther(t *testing.T) {
	a := New(func(Args, Kwargs) any { return nil })
	b := New(func(Args, Kwargs) any { return nil })

	require.NoError(t, a.Append(b))

	assert.ErrorIs(t, b.Start(), ErrInvalidState)
	assert.ErrorIs(t, b.Stop(), ErrInvalidState)
	assert.ErrorIs(t, b.Join(), ErrInvalidState)
	assert.ErrorIs(t, b.SetDuration(time.Second), ErrInvalidState)
}

func TestConcatFoldsAppend(t *testing.T) {
	var order []int
	newLink := func(n int) *Task {
		return New(func(Args, Kwargs) any {
			order = append(order, n)
			return nil
		})
	}

	a, b, c := newLink(1), newLink(2), newLink(3)
	head, err := Concat(a, b, c)
	require.NoError(t, err)
	require.Same(t, a, head)

	require.NoError(t, head.Start())
	require.NoError(t, head.Join())

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestAppendRejectsNonHead(t *testing.T) {
	a := New(func(Args, Kwargs) any { return nil })
	b := New(func(Args, Kwargs) any { return nil })
	c := New(func(Args, Kwargs) any { return nil })

	require.NoError(t, a.Append(b))
	err := c.Append(b)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
