package middleware

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/logger"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *reqctx.Context) bool

	// Logger is the slog logger to use (default: the context logger)
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

// Logging creates a request logging middleware with default configuration.
func Logging() handler.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithConfig logs one record per request once the handler has
// finalized its response. 5xx responses and handler errors are logged at
// error level, 4xx and slow requests at warning level.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(c *reqctx.Context) (*response.Response, error) {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			log := cfg.Logger
			if log == nil {
				log = c.Logger()
			}

			start := time.Now()
			resp, err := next(c)
			duration := time.Since(start)

			req := c.Request()
			requestID, _ := GetRequestID(c)

			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.RequestID(requestID),
				logger.Latency(duration),
			}

			level := cfg.LogLevel
			switch {
			case err != nil:
				level = slog.LevelError
				attrs = append(attrs, logger.Error(err))
			case resp == nil:
				level = slog.LevelError
			default:
				attrs = append(attrs, logger.StatusCode(resp.Status()))
				if n, ok := resp.Body().Len(); ok {
					attrs = append(attrs, logger.BytesOut(n))
				}
				switch {
				case resp.Status() >= 500:
					level = slog.LevelError
				case resp.Status() >= 400:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}
			}

			log.LogAttrs(req.Context(), level, "HTTP request completed", attrs...)
			return resp, err
		}
	}
}
