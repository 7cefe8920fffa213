package response

import "errors"

var (
	// ErrWrite is returned when the body could not be copied to the writer.
	ErrWrite = errors.New("failed to write response body")
)
