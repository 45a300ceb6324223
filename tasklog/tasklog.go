// Package tasklog offers print-based lifecycle hooks for threadtask.Task,
// in the same spirit as the teacher's middlewares/log.go: plain
// fmt.Printf, no structured logger, because the teacher never adopts one
// either — logging here is opt-in via hooks, never baked into the
// executor.
package tasklog

import (
	"fmt"
	"io"
	"os"

	"github.com/matroskin13/threadtask"
)

// Println returns a threadtask.HookFunc that prints name and the hook's
// bound args/kwargs to os.Stdout, one line per invocation.
func Println(name string) threadtask.HookFunc {
	return Fprintln(os.Stdout, name)
}

// Fprintln is Println against an arbitrary writer, handy for tests.
func Fprintln(w io.Writer, name string) threadtask.HookFunc {
	return func(args threadtask.Args, kwargs threadtask.Kwargs) {
		fmt.Fprintf(w, "threadtask: %s args=%v kwargs=%v\n", name, args, kwargs)
	}
}

// Printf returns a threadtask.HookFunc that renders format against the
// hook's bound args before printing it, for callers who want a friendlier
// message than Println's fixed shape. format, with a newline appended, is
// passed to fmt.Printf with args... as its operands.
func Printf(format string) threadtask.HookFunc {
	return func(args threadtask.Args, kwargs threadtask.Kwargs) {
		fmt.Printf(format+"\n", args...)
	}
}

// ExcHandler returns a threadtask.ExcHandler that prints err with name for
// context, then lets it propagate (does not swallow it) — useful as a
// final diagnostic step before the default handler's stop-and-record.
func ExcHandler(name string) threadtask.ExcHandler {
	return func(err error) {
		fmt.Fprintf(os.Stderr, "threadtask: %s: %v\n", name, err)
		panic(err)
	}
}
