package reqctx

import (
	"log/slog"

	"github.com/dmitrymomot/flare/core/lifecycle"
	"github.com/dmitrymomot/flare/core/response"
)

// Option configures a Context during creation.
type Option func(*Context)

// WithResponse binds the context to an existing response.
func WithResponse(res *response.Response) Option {
	return func(c *Context) {
		c.bound = res
	}
}

// WithEnv sets the deployment data bag.
func WithEnv(env Env) Option {
	return func(c *Context) {
		c.env = env
	}
}

// WithEvent sets the lifecycle handle.
func WithEvent(e *lifecycle.Event) Option {
	return func(c *Context) {
		c.event = e
	}
}

// WithRenderer sets the render hook used by Render.
func WithRenderer(fn RenderFunc) Option {
	return func(c *Context) {
		c.render = fn
	}
}

// WithNotFound sets the hook used by NotFound.
func WithNotFound(fn NotFoundFunc) Option {
	return func(c *Context) {
		c.notFound = fn
	}
}

// WithStatusTextFunc replaces the status code to reason phrase lookup.
func WithStatusTextFunc(fn func(int) string) Option {
	return func(c *Context) {
		if fn != nil {
			c.statusTextFor = fn
		}
	}
}

// WithURLChecker replaces the absolute URL predicate used by Redirect.
func WithURLChecker(fn func(string) bool) Option {
	return func(c *Context) {
		if fn != nil {
			c.isAbsoluteURL = fn
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPrettyPrint enables indented JSON from the start.
func WithPrettyPrint(indent int) Option {
	return func(c *Context) {
		c.pretty = true
		c.indent = indent
	}
}
