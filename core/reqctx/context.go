package reqctx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/flare/core/lifecycle"
	"github.com/dmitrymomot/flare/core/logger"
	"github.com/dmitrymomot/flare/core/response"
)

// DefaultIndent is the JSON indentation width used when pretty printing
// is enabled without an explicit width.
const DefaultIndent = 2

// Env is the per-deployment data bag handed to every request.
// The context passes it through without modification.
type Env map[string]string

// Get returns the value for key, or an empty string.
func (e Env) Get(key string) string {
	return e[key]
}

// RenderFunc renders a named template into a response.
type RenderFunc func(c *Context, name string, params any) (*response.Response, error)

// NotFoundFunc produces the response for unmatched requests.
type NotFoundFunc func(c *Context) (*response.Response, error)

// Context holds the response state of one request.
type Context struct {
	req   *http.Request
	bound *response.Response
	env   Env
	event *lifecycle.Event

	headers    http.Header
	status     int
	statusText string
	pretty     bool
	indent     int

	values map[any]any

	render   RenderFunc
	notFound NotFoundFunc

	statusTextFor func(int) string
	isAbsoluteURL func(string) bool
	logger        *slog.Logger
}

// New creates a context for the request.
// Whether the context is bound to an existing response is decided here
// and never changes afterwards.
func New(r *http.Request, opts ...Option) *Context {
	c := &Context{
		req:           r,
		headers:       make(http.Header),
		values:        make(map[any]any),
		indent:        DefaultIndent,
		statusTextFor: http.StatusText,
		isAbsoluteURL: IsAbsoluteURL,
		logger:        logger.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Bind returns a new context for the same request that is bound to res.
// The request, env, lifecycle handle, hooks and collaborators are shared;
// staged state starts empty. Values set with SetValue are visible
// through both contexts. The receiver is not modified.
func (c *Context) Bind(res *response.Response) *Context {
	return &Context{
		req:           c.req,
		bound:         res,
		env:           c.env,
		event:         c.event,
		headers:       make(http.Header),
		values:        c.values,
		indent:        c.indent,
		pretty:        c.pretty,
		render:        c.render,
		notFound:      c.notFound,
		statusTextFor: c.statusTextFor,
		isAbsoluteURL: c.isAbsoluteURL,
		logger:        c.logger,
	}
}

// Request returns the inbound request.
func (c *Context) Request() *http.Request {
	return c.req
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context {
	if c.req == nil {
		return context.Background()
	}
	return c.req.Context()
}

// Param returns the value of the named route parameter.
func (c *Context) Param(key string) string {
	if c.req == nil {
		return ""
	}
	return c.req.PathValue(key)
}

// Env returns the deployment data bag.
func (c *Context) Env() Env {
	return c.env
}

// Event returns the lifecycle handle of the request. It may be nil.
func (c *Context) Event() *lifecycle.Event {
	return c.event
}

// Bound returns the pre-existing response the context was created with, or nil.
func (c *Context) Bound() *response.Response {
	return c.bound
}

// IsBound reports whether the context was created with a pre-existing response.
func (c *Context) IsBound() bool {
	return c.bound != nil
}

// SetValue stores a request-scoped value.
func (c *Context) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Value returns the value stored with SetValue, falling back to the
// request's context.Context.
func (c *Context) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return c.Context().Value(key)
}

// Logger returns the logger of the context.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Status returns the staged status code, or 0 when none is staged.
func (c *Context) Status() int {
	return c.status
}

// Header returns a copy of the staged headers.
func (c *Context) Header() http.Header {
	return c.headers.Clone()
}

// SetHeader stages a header, overwriting any previous value.
// On a bound context the header is also set on the bound response.
func (c *Context) SetHeader(name, value string) {
	if c.bound != nil {
		c.bound.Header().Set(name, value)
	}
	c.headers.Set(name, value)
}

// SetStatus stages the status code and its reason phrase.
// On a bound context the status is already committed: the call is
// logged and ignored.
func (c *Context) SetStatus(code int) {
	if c.bound != nil {
		c.logger.WarnContext(c.Context(), "response status is already set",
			logger.StatusCode(code),
			slog.Int("committed_status", c.bound.Status()),
		)
		return
	}
	if code < 100 || code > 599 {
		c.logger.WarnContext(c.Context(), "invalid status code ignored", logger.StatusCode(code))
		return
	}
	c.status = code
	c.statusText = c.statusTextFor(code)
}

// SetPrettyPrint toggles indented JSON output for subsequent JSON calls.
// The optional indent defaults to DefaultIndent.
func (c *Context) SetPrettyPrint(enabled bool, indent ...int) {
	c.pretty = enabled
	c.indent = DefaultIndent
	if len(indent) > 0 {
		c.indent = indent[0]
	}
}

// Render invokes the configured render hook.
func (c *Context) Render(name string, params any) (*response.Response, error) {
	if c.render == nil {
		return nil, ErrNoRenderer
	}
	return c.render(c, name, params)
}

// NotFound invokes the configured not-found hook, falling back to a
// plain 404 response.
func (c *Context) NotFound() (*response.Response, error) {
	if c.notFound != nil {
		return c.notFound(c)
	}
	return c.Text(http.StatusText(http.StatusNotFound), WithStatus(http.StatusNotFound))
}
