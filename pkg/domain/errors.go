package domain

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned when a run is requested while a previous
// one is still active. API callers map it to a conflict.
var ErrAlreadyRunning = errors.New("a program is already running")

// ErrMissingBinding is returned when a program requires a host function the
// API table does not expose.
var ErrMissingBinding = errors.New("missing host binding")

// ErrEmptyWorkspace is returned when a run is requested for a workspace
// without any blocks.
var ErrEmptyWorkspace = errors.New("workspace has no blocks")

// ErrLessonNotFound is returned when a lesson ID cannot be resolved by the
// configured lesson source.
var ErrLessonNotFound = errors.New("lesson not found")

// FaultError is a program failure inside the sandbox: a runtime error, an
// exceeded run deadline, or a broken host call. The run terminates where it
// stands; board mutations that already happened are kept.
type FaultError struct {
	RunID  string
	Detail string
	Err    error
}

func (e *FaultError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("program fault: %s", e.Detail)
	}
	return fmt.Sprintf("program fault: %v", e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// UnknownBlockError is a compile failure for a block type the registry does
// not know. Suggestion carries the closest known type name, if any.
type UnknownBlockError struct {
	Type       string
	Suggestion string
}

func (e *UnknownBlockError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown block type %q (did you mean %q?)", e.Type, e.Suggestion)
	}
	return fmt.Sprintf("unknown block type %q", e.Type)
}
