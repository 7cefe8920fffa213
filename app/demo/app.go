// Package demo is a small application showing how request contexts,
// middleware, the render hook and deferred work fit together.
package demo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/flare/core/config"
	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/logger"
	"github.com/dmitrymomot/flare/core/render"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/server"
	"github.com/dmitrymomot/flare/middleware"
)

// App wires configuration, logging, routes and the HTTP server.
type App struct {
	config   Config
	mux      *http.ServeMux
	server   *server.Server
	renderer *render.Renderer
	logger   *slog.Logger
	users    *userStore
}

// AppOption configures an App.
type AppOption func(*App) error

// NewApp loads configuration and builds the application.
func NewApp(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return NewAppWithConfig(cfg, opts...)
}

// NewAppWithConfig builds the application from an explicit configuration.
func NewAppWithConfig(cfg Config, opts ...AppOption) (*App, error) {
	app := &App{
		config:   cfg,
		renderer: render.New(),
		users:    newUserStore(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		if cfg.IsDevelopment() {
			app.logger = logger.New(logger.WithDevelopment(cfg.AppName))
		} else {
			app.logger = logger.New(
				logger.WithProduction(cfg.AppName),
				logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
			)
		}
	}

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	registerViews(app.renderer)
	app.mux = app.routes()

	return app, nil
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

// WithServer sets the HTTP server.
func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

// Handler returns the root HTTP handler.
func (app *App) Handler() http.Handler {
	return app.mux
}

// Run serves until ctx is canceled.
func (app *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.server.Run(ctx, app.mux))
	return g.Wait()
}

// handlerOptions are shared by every route.
func (app *App) handlerOptions() []handler.Option {
	security := middleware.BalancedSecurity
	if app.config.IsDevelopment() {
		security = middleware.DevelopmentSecurity
	}

	ctxOpts := []reqctx.Option{
		reqctx.WithEnv(reqctx.Env(app.config.Vars)),
		reqctx.WithRenderer(app.renderer.Func()),
		reqctx.WithNotFound(notFound),
	}
	if app.config.JSONPretty {
		ctxOpts = append(ctxOpts, reqctx.WithPrettyPrint(app.config.JSONIndent))
	}

	return []handler.Option{
		handler.WithLogger(app.logger),
		handler.WithContextOptions(ctxOpts...),
		handler.WithMiddleware(
			middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true}),
			middleware.ClientIP(),
			middleware.Logging(),
			middleware.SecurityHeadersWithConfig(security),
			middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins:  app.config.CORSOrigins,
				ExposeHeaders: []string{"X-Request-ID", "Location"},
			}),
			middleware.BodyLimitWithSize(app.config.MaxBodySize),
			handler.After(func(c *reqctx.Context) {
				c.SetHeader("X-Powered-By", app.config.AppName)
			}),
		),
	}
}
