package tasklog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matroskin13/threadtask"
)

func TestFprintlnWritesTaskName(t *testing.T) {
	var buf bytes.Buffer
	hook := Fprintln(&buf, "heartbeat")

	hook(threadtask.Args{1, 2}, threadtask.Kwargs{"k": "v"})

	assert.Contains(t, buf.String(), "heartbeat")
	assert.Contains(t, buf.String(), "1")
}

func TestExcHandlerRePanicsWithSameError(t *testing.T) {
	handler := ExcHandler("boom-task")
	original := errors.New("boom")

	assert.PanicsWithValue(t, original, func() {
		handler(original)
	})
}
