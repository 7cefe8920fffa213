package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

var (
	// ErrNilResponse is reported when a handler returns neither a response nor an error.
	ErrNilResponse = errors.New("nil response")
)

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// DefaultErrorHandler responds with the status of errors implementing
// StatusCode() int, and 500 otherwise. Internal error details are not
// exposed to the client.
func DefaultErrorHandler(c *reqctx.Context, err error) *response.Response {
	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var sc statusCode
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 100 && code <= 599 {
			status = code
			msg = err.Error()
		}
	}

	resp, _ := c.Text(msg, reqctx.WithStatus(status))
	return resp
}

// PanicError is passed to the error handler when a handler panics.
// It provides access to the original panic value and stack trace.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
