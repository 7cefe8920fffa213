package handler

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/flare/core/lifecycle"
	"github.com/dmitrymomot/flare/core/reqctx"
)

// Option configures a Handler during creation.
type Option func(*Handler)

// WithMiddleware appends middleware to the chain.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(a *Handler) {
		a.middlewares = append(a.middlewares, middlewares...)
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *Handler) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithLogger sets the logger shared by the handler, its contexts and
// lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(a *Handler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithContextOptions adds options applied to every request context.
func WithContextOptions(opts ...reqctx.Option) Option {
	return func(a *Handler) {
		a.ctxOpts = append(a.ctxOpts, opts...)
	}
}

// WithEventOptions adds options applied to every lifecycle event.
func WithEventOptions(opts ...lifecycle.Option) Option {
	return func(a *Handler) {
		a.eventOpts = append(a.eventOpts, opts...)
	}
}

// WithDrainTimeout sets how long deferred work is awaited after the
// response was sent.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Handler) {
		if d > 0 {
			a.drainTimeout = d
		}
	}
}
