package response

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
)

// Init carries the metadata a Response is constructed with.
// Zero values mean "not set".
type Init struct {
	Status     int
	StatusText string
	Header     http.Header
}

// Response is a fully specified outbound HTTP response held in memory
// until it is rendered to an http.ResponseWriter.
type Response struct {
	status     int
	statusText string
	header     http.Header
	body       Body
}

// New creates a response from a body and init metadata.
// The init header is copied; a zero status becomes 200 OK.
func New(body Body, init Init) *Response {
	status := init.Status
	if status == 0 {
		status = http.StatusOK
	}

	statusText := init.StatusText
	if statusText == "" {
		statusText = http.StatusText(status)
	}

	header := make(http.Header, len(init.Header))
	for k, v := range init.Header {
		header[k] = append([]string(nil), v...)
	}

	return &Response{
		status:     status,
		statusText: statusText,
		header:     header,
		body:       body,
	}
}

// Status returns the HTTP status code.
func (r *Response) Status() int {
	return r.status
}

// StatusText returns the reason phrase.
func (r *Response) StatusText() string {
	return r.statusText
}

// Header returns the mutable header set of the response.
func (r *Response) Header() http.Header {
	return r.header
}

// Body returns the response payload.
func (r *Response) Body() Body {
	return r.body
}

// Render writes headers, status and body to w.
// The body is skipped for HEAD requests and for statuses that forbid one.
// Net/http writes the reason phrase for the status code itself, so a
// custom StatusText is not transmitted.
func (r *Response) Render(w http.ResponseWriter, req *http.Request) error {
	dst := w.Header()
	maps.Copy(dst, r.header)

	w.WriteHeader(r.status)

	if r.body.IsEmpty() || !bodyAllowed(r.status) || (req != nil && req.Method == http.MethodHead) {
		return nil
	}

	if _, err := io.Copy(w, r.body.Reader()); err != nil {
		return errors.Join(ErrWrite, fmt.Errorf("status %d: %w", r.status, err))
	}
	return nil
}

// bodyAllowed reports whether a status permits a body per RFC 9110.
func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
