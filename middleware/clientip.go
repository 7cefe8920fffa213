package middleware

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/logger"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
	"github.com/dmitrymomot/flare/pkg/clientip"
)

// clientIPContextKey is used as a key for storing client IP in the context.
type clientIPContextKey struct{}

// ClientIPConfig configures the client IP extraction middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *reqctx.Context) bool
	// StoreInContext determines whether to store the extracted IP in the context
	StoreInContext bool
	// HeaderName specifies the response header name for the client IP (default: "X-Client-IP")
	HeaderName string
	// StoreInHeader stages the IP as a response header
	StoreInHeader bool
	// ValidateFunc rejects requests with 403 when it returns an error
	ValidateFunc func(c *reqctx.Context, ip string) error
}

// ClientIP creates a client IP extraction middleware that stores the IP
// in the context.
func ClientIP() handler.Middleware {
	return ClientIPWithConfig(ClientIPConfig{StoreInContext: true})
}

// ClientIPWithConfig creates a client IP extraction middleware with custom configuration.
func ClientIPWithConfig(cfg ClientIPConfig) handler.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	if !cfg.StoreInContext && !cfg.StoreInHeader && cfg.ValidateFunc == nil {
		cfg.StoreInContext = true
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(c *reqctx.Context) (*response.Response, error) {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			ip := clientip.GetIP(c.Request())

			if cfg.StoreInContext {
				c.SetValue(clientIPContextKey{}, ip)
			}

			if cfg.ValidateFunc != nil {
				if err := cfg.ValidateFunc(c, ip); err != nil {
					c.Logger().WarnContext(c.Context(), "client ip rejected", slog.String("ip", ip), logger.Error(err))
					return c.Text(http.StatusText(http.StatusForbidden), reqctx.WithStatus(http.StatusForbidden))
				}
			}

			if cfg.StoreInHeader {
				c.SetHeader(cfg.HeaderName, ip)
			}

			return next(c)
		}
	}
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(c *reqctx.Context) (string, bool) {
	ip, ok := c.Value(clientIPContextKey{}).(string)
	return ip, ok
}
