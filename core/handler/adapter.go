package handler

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/flare/core/lifecycle"
	"github.com/dmitrymomot/flare/core/logger"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// DefaultDrainTimeout bounds how long deferred work of a request is
// awaited after the response was sent.
const DefaultDrainTimeout = 30 * time.Second

// Handler adapts a HandlerFunc to http.Handler. It creates one
// reqctx.Context per request, runs the middleware chain and renders the
// returned response.
type Handler struct {
	endpoint     HandlerFunc
	middlewares  []Middleware
	errorHandler ErrorHandler
	logger       *slog.Logger
	ctxOpts      []reqctx.Option
	eventOpts    []lifecycle.Option
	drainTimeout time.Duration

	h HandlerFunc
}

// New creates an http.Handler serving h.
func New(h HandlerFunc, opts ...Option) *Handler {
	a := &Handler{
		endpoint:     h,
		errorHandler: DefaultErrorHandler,
		logger:       logger.Discard(),
		drainTimeout: DefaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.h = Chain(a.middlewares, a.endpoint)
	return a
}

// ServeHTTP implements http.Handler.
func (a *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ev := lifecycle.NewEvent(r.Context(), append([]lifecycle.Option{lifecycle.WithLogger(a.logger)}, a.eventOpts...)...)

	opts := make([]reqctx.Option, 0, len(a.ctxOpts)+2)
	opts = append(opts, reqctx.WithLogger(a.logger), reqctx.WithEvent(ev))
	opts = append(opts, a.ctxOpts...)
	c := reqctx.New(r, opts...)

	resp := a.serve(c)

	if err := resp.Render(w, r); err != nil {
		a.logger.ErrorContext(r.Context(), "failed to render response",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.StatusCode(resp.Status()),
			logger.Error(err),
		)
	}

	if ev.Pending() > 0 {
		go a.drain(ev)
	}
}

// serve runs the chain and always returns a response.
func (a *Handler) serve(c *reqctx.Context) (resp *response.Response) {
	defer func() {
		if p := recover(); p != nil {
			pe := &panicError{value: p, stack: debug.Stack()}
			a.logger.ErrorContext(c.Context(), "handler panic",
				logger.Path(c.Request().URL.Path),
				logger.Error(pe),
				slog.String("stack", string(pe.stack)),
			)
			resp = a.handleError(c, pe)
		}
	}()

	resp, err := a.h(c)
	if err != nil {
		return a.handleError(c, err)
	}
	if resp == nil {
		return a.handleError(c, ErrNilResponse)
	}
	return resp
}

func (a *Handler) handleError(c *reqctx.Context, err error) *response.Response {
	if resp := a.errorHandler(c, err); resp != nil {
		return resp
	}
	resp, _ := c.Text(http.StatusText(http.StatusInternalServerError), reqctx.WithStatus(http.StatusInternalServerError))
	return resp
}

func (a *Handler) drain(ev *lifecycle.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), a.drainTimeout)
	defer cancel()

	if err := ev.Wait(ctx); err != nil {
		a.logger.Error("deferred work did not complete",
			logger.ID("event_id", ev.ID()),
			logger.Error(err),
		)
	}
}
