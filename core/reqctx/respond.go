package reqctx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrymomot/flare/core/response"
)

// Content types set by the typed terminal methods.
const (
	ContentTypeText = "text/plain; charset=UTF-8"
	ContentTypeJSON = "application/json; charset=UTF-8"
	ContentTypeHTML = "text/html; charset=UTF-8"
)

// maxIndent caps the JSON indentation width.
const maxIndent = 10

// RespondOption overrides response metadata for a single terminal call.
type RespondOption func(*respondConfig)

type respondConfig struct {
	status     int
	statusText string
	header     http.Header
}

// WithStatus overrides the status code. Zero keeps the staged status.
func WithStatus(code int) RespondOption {
	return func(rc *respondConfig) {
		rc.status = code
	}
}

// WithStatusText overrides the reason phrase.
func WithStatusText(text string) RespondOption {
	return func(rc *respondConfig) {
		rc.statusText = text
	}
}

// WithHeader sets a header for this response only.
func WithHeader(name, value string) RespondOption {
	return func(rc *respondConfig) {
		rc.header.Set(name, value)
	}
}

// WithHeaders sets several headers for this response only.
func WithHeaders(headers map[string]string) RespondOption {
	return func(rc *respondConfig) {
		for k, v := range headers {
			rc.header.Set(k, v)
		}
	}
}

func newRespondConfig(opts []RespondOption) respondConfig {
	rc := respondConfig{header: make(http.Header)}
	for _, opt := range opts {
		opt(&rc)
	}
	return rc
}

// buildResponse merges staged state, per-call overrides and the computed
// Content-Length into a new response. The bound response is never touched.
func (c *Context) buildResponse(body response.Body, rc respondConfig) *response.Response {
	status := rc.status
	if status == 0 {
		status = c.status
	}
	if status == 0 {
		status = http.StatusOK
	}

	statusText := rc.statusText
	if statusText == "" {
		statusText = c.statusText
	}
	if statusText == "" {
		statusText = c.statusTextFor(status)
	}

	header := c.headers.Clone()
	for k, v := range rc.header {
		header[k] = append([]string(nil), v...)
	}

	if n, ok := body.Len(); ok {
		header.Set("Content-Length", strconv.FormatInt(n, 10))
	} else {
		// Unknown stream size: leave framing to the transport.
		header.Del("Content-Length")
	}

	return response.New(body, response.Init{
		Status:     status,
		StatusText: statusText,
		Header:     header,
	})
}

// Body finalizes a raw payload verbatim, without a content type.
func (c *Context) Body(body response.Body, opts ...RespondOption) (*response.Response, error) {
	return c.buildResponse(body, newRespondConfig(opts)), nil
}

// Text finalizes a text/plain response.
func (c *Context) Text(text string, opts ...RespondOption) (*response.Response, error) {
	return c.typed(response.TextBody(text), ContentTypeText, opts), nil
}

// HTML finalizes a text/html response.
func (c *Context) HTML(markup string, opts ...RespondOption) (*response.Response, error) {
	return c.typed(response.TextBody(markup), ContentTypeHTML, opts), nil
}

// JSON serializes v and finalizes an application/json response.
// v must be a structured value: a map, struct, slice, array, a pointer to
// one of those, a json.Marshaler, or nil.
func (c *Context) JSON(v any, opts ...RespondOption) (*response.Response, error) {
	if !isStructured(v) {
		return nil, fmt.Errorf("%w: json payload must be a structured value, got %T", ErrTypeKind, v)
	}

	data, err := c.encodeJSON(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}

	return c.typed(response.BinaryBody(data), ContentTypeJSON, opts), nil
}

// Redirect finalizes a redirect to location with the given status,
// 302 Found by default. The staged status is never used.
// Relative locations are resolved against the request URL.
func (c *Context) Redirect(location string, status ...int) (*response.Response, error) {
	code := http.StatusFound
	if len(status) > 0 && status[0] != 0 {
		code = status[0]
	}

	rc := newRespondConfig(nil)
	rc.status = code
	rc.statusText = c.statusTextFor(code)
	rc.header.Set("Location", c.resolveLocation(location))

	return c.buildResponse(response.EmptyBody, rc), nil
}

// typed applies the default content type unless the caller set one.
func (c *Context) typed(body response.Body, contentType string, opts []RespondOption) *response.Response {
	rc := newRespondConfig(opts)
	if rc.header.Get("Content-Type") == "" {
		rc.header.Set("Content-Type", contentType)
	}
	return c.buildResponse(body, rc)
}

func (c *Context) encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.pretty && c.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", min(c.indent, maxIndent)))
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// isStructured reports whether v serializes to a JSON object or array
// (or null).
func isStructured(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(json.Marshaler); ok {
		return true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// Kind selects the terminal method used by Respond.
type Kind int

const (
	KindRaw Kind = iota
	KindText
	KindJSON
	KindHTML
	KindRedirect
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindHTML:
		return "html"
	case KindRedirect:
		return "redirect"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Respond finalizes a payload of unknown static type with the terminal
// method selected by kind. It returns ErrTypeKind before producing any
// response when the payload does not match the kind.
//
// Raw payloads may be a string, []byte, io.Reader, response.Body or nil.
// Text, HTML and redirect payloads must be strings. For redirects only
// WithStatus is honored.
func (c *Context) Respond(kind Kind, payload any, opts ...RespondOption) (*response.Response, error) {
	switch kind {
	case KindRaw:
		body, ok := asBody(payload)
		if !ok {
			return nil, fmt.Errorf("%w: raw payload must be text, binary or a stream, got %T", ErrTypeKind, payload)
		}
		return c.Body(body, opts...)

	case KindText, KindHTML:
		s, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s payload must be a string, got %T", ErrTypeKind, kind, payload)
		}
		if kind == KindHTML {
			return c.HTML(s, opts...)
		}
		return c.Text(s, opts...)

	case KindJSON:
		return c.JSON(payload, opts...)

	case KindRedirect:
		location, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("%w: location must be a string, got %T", ErrTypeKind, payload)
		}
		rc := newRespondConfig(opts)
		return c.Redirect(location, rc.status)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

func asBody(payload any) (response.Body, bool) {
	switch p := payload.(type) {
	case nil:
		return response.EmptyBody, true
	case string:
		return response.TextBody(p), true
	case []byte:
		return response.BinaryBody(p), true
	case response.Body:
		return p, true
	case io.Reader:
		return response.StreamBody(p), true
	}
	return response.Body{}, false
}
