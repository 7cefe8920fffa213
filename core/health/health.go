package health

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/logger"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// Check reports whether a dependency is available.
type Check func(ctx context.Context) error

// Liveness always answers "ALIVE" with 200 OK.
func Liveness(c *reqctx.Context) (*response.Response, error) {
	return c.Text("ALIVE")
}

// NoContent answers 204 without a body.
func NoContent(c *reqctx.Context) (*response.Response, error) {
	return c.Body(response.EmptyBody, reqctx.WithStatus(http.StatusNoContent))
}

// Readiness runs every check concurrently and answers "READY", or 503
// Service Unavailable when any of them fails.
func Readiness(log *slog.Logger, checks ...Check) handler.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(c *reqctx.Context) (*response.Response, error) {
		g, ctx := errgroup.WithContext(c.Context())
		for _, check := range checks {
			g.Go(func() error {
				return check(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			log.LogAttrs(c.Context(), slog.LevelError, "readiness check failed",
				logger.Group("readiness", slog.Int("checks", len(checks)), logger.Error(err)),
			)
			return c.Text(http.StatusText(http.StatusServiceUnavailable), reqctx.WithStatus(http.StatusServiceUnavailable))
		}

		return c.Text("READY")
	}
}
