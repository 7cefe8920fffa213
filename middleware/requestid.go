package middleware

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// requestIDContextKey is used as a key for storing request ID in the context.
type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *reqctx.Context) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting determines whether to use an existing request ID from the incoming request
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
func RequestID() handler.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
// The ID is stored in the context and staged as a response header, so every
// response finalized by the handler carries it.
func RequestIDWithConfig(cfg RequestIDConfig) handler.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}

	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(c *reqctx.Context) (*response.Response, error) {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			var requestID string
			if cfg.UseExisting {
				requestID = c.Request().Header.Get(cfg.HeaderName)
			}
			if requestID == "" {
				requestID = cfg.Generator()
			}

			c.SetValue(requestIDContextKey{}, requestID)
			c.SetHeader(cfg.HeaderName, requestID)

			return next(c)
		}
	}
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(c *reqctx.Context) (string, bool) {
	id, ok := c.Value(requestIDContextKey{}).(string)
	return id, ok
}
