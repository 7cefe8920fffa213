// Package lifecycle provides the execution lifecycle handle of a request.
//
// Handlers register deferred work with WaitUntil. The work starts at once on
// a context that outlives the request, and the host drains it with Wait
// after the response has been sent:
//
//	ev := lifecycle.NewEvent(r.Context())
//	ev.WaitUntil(func(ctx context.Context) error {
//		return audit.Record(ctx, entry)
//	})
//	// ... write the response ...
//	if err := ev.Wait(shutdownCtx); err != nil {
//		log.Error("deferred work failed", logger.Error(err))
//	}
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/flare/core/logger"
)

// Event tracks deferred work of a single request.
// Safe for concurrent use.
type Event struct {
	id      string
	ctx     context.Context
	group   errgroup.Group
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	tasks  int
	errs   []error
}

// Option configures an Event.
type Option func(*Event)

// WithMaxTasks limits the number of deferred tasks running at once.
// Further WaitUntil calls block until a slot frees up.
func WithMaxTasks(n int) Option {
	return func(e *Event) {
		if n > 0 {
			e.group.SetLimit(n)
		}
	}
}

// WithTaskTimeout bounds the run time of every deferred task.
func WithTaskTimeout(d time.Duration) Option {
	return func(e *Event) {
		e.timeout = d
	}
}

// WithLogger sets the logger used to report failed tasks.
func WithLogger(l *slog.Logger) Option {
	return func(e *Event) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithID sets the event identifier. Defaults to a random UUID.
func WithID(id string) Option {
	return func(e *Event) {
		if id != "" {
			e.id = id
		}
	}
}

// NewEvent creates a lifecycle handle. Deferred tasks receive a context
// carrying the values of parent but not its cancellation.
func NewEvent(parent context.Context, opts ...Option) *Event {
	if parent == nil {
		parent = context.Background()
	}
	e := &Event{
		id:     uuid.New().String(),
		ctx:    context.WithoutCancel(parent),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the event identifier.
func (e *Event) ID() string {
	return e.id
}

// Pending returns the number of registered tasks that have not finished.
func (e *Event) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks
}

// WaitUntil starts fn in the background and extends the lifecycle of the
// request until it returns.
func (e *Event) WaitUntil(fn func(ctx context.Context) error) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEventClosed
	}
	e.tasks++
	e.wg.Add(1)
	e.mu.Unlock()

	e.group.Go(func() error {
		defer e.wg.Done()
		err := e.run(fn)

		e.mu.Lock()
		e.tasks--
		if err != nil {
			e.errs = append(e.errs, err)
		}
		e.mu.Unlock()

		if err != nil {
			e.logger.ErrorContext(e.ctx, "deferred task failed",
				logger.ID("event_id", e.id),
				logger.Error(err),
			)
		}
		// Errors are collected above; returning them would only keep the first.
		return nil
	})
	return nil
}

func (e *Event) run(fn func(ctx context.Context) error) (err error) {
	ctx := e.ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, p)
		}
	}()

	return fn(ctx)
}

// Wait closes the event to new work and blocks until every task has
// returned or ctx is done. It returns the joined task errors.
func (e *Event) Wait(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return errors.Join(e.errs...)
}
