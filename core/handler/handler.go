package handler

import (
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// HandlerFunc handles a request and returns the finalized response.
type HandlerFunc func(c *reqctx.Context) (*response.Response, error)

// ErrorHandler converts a handler error into a response.
type ErrorHandler func(c *reqctx.Context, err error) *response.Response

// Middleware wraps handlers to add cross-cutting functionality.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain builds a single handler from a middleware stack and endpoint.
// The first middleware runs first.
func Chain(middlewares []Middleware, endpoint HandlerFunc) HandlerFunc {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// After returns a middleware that calls fn once next has produced a
// response. fn receives a context bound to that response: SetHeader
// writes through to it and SetStatus is ignored.
func After(fn func(c *reqctx.Context)) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *reqctx.Context) (*response.Response, error) {
			resp, err := next(c)
			if err != nil || resp == nil {
				return resp, err
			}
			fn(c.Bind(resp))
			return resp, nil
		}
	}
}
