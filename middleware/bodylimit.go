package middleware

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// Common size constants for convenience
const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(c *reqctx.Context) bool

	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64

	// ContentTypeLimit allows setting different limits per media type
	// Example: {"application/json": 1 * MB, "multipart/form-data": 10 * MB}
	ContentTypeLimit map[string]int64

	// ErrorHandler builds the response for requests whose declared
	// Content-Length exceeds the limit (default: 413 JSON)
	ErrorHandler func(c *reqctx.Context, contentLength, maxSize int64) (*response.Response, error)

	// DisableContentLengthCheck skips the Content-Length header check
	// and only enforces the limit during body reading
	DisableContentLengthCheck bool
}

// BodyLimit creates a body limit middleware with a 4MB limit.
func BodyLimit() handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit middleware with a specified size limit.
func BodyLimitWithSize(maxSize int64) handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests that declare a body larger than the
// limit and caps reads of the remaining ones. Reads past the limit fail
// with *http.MaxBytesError.
func BodyLimitWithConfig(cfg BodyLimitConfig) handler.Middleware {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * MB
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultBodyLimitError
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(c *reqctx.Context) (*response.Response, error) {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			req := c.Request()

			maxSize := cfg.MaxSize
			if cfg.ContentTypeLimit != nil {
				if mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type")); err == nil {
					if limit, ok := cfg.ContentTypeLimit[mediaType]; ok {
						maxSize = limit
					}
				}
			}

			if !cfg.DisableContentLengthCheck {
				n := req.ContentLength
				if n <= 0 {
					n, _ = strconv.ParseInt(req.Header.Get("Content-Length"), 10, 64)
				}
				if n > maxSize {
					return cfg.ErrorHandler(c, n, maxSize)
				}
			}

			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(nil, req.Body, maxSize)
			}

			return next(c)
		}
	}
}

func defaultBodyLimitError(c *reqctx.Context, contentLength, maxSize int64) (*response.Response, error) {
	return c.JSON(map[string]any{
		"error": fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s",
			formatBytes(contentLength), formatBytes(maxSize)),
		"size":  contentLength,
		"limit": maxSize,
	}, reqctx.WithStatus(http.StatusRequestEntityTooLarge))
}

// formatBytes formats bytes into a human-readable string
func formatBytes(bytes int64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
