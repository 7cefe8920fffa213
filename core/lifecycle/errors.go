package lifecycle

import "errors"

var (
	// ErrEventClosed is returned when work is registered after Wait was called.
	ErrEventClosed = errors.New("lifecycle event is closed")

	// ErrTaskPanic wraps a panic recovered from a deferred task.
	ErrTaskPanic = errors.New("deferred task panicked")
)
