// Package render implements the render hook of request contexts with
// templ components.
//
//	r := render.New()
//	r.Register("home", func(params any) (templ.Component, error) {
//		return views.Home(params.(views.HomeData)), nil
//	})
//
//	c := reqctx.New(req, reqctx.WithRenderer(r.Func()))
//	resp, err := c.Render("home", data)
package render

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

var (
	// ErrTemplateNotFound is returned for names without a registered view.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrRender wraps errors returned by a component while rendering.
	ErrRender = errors.New("failed to render template")
)

// ViewFunc builds a component from render params.
type ViewFunc func(params any) (templ.Component, error)

// Renderer maps template names to templ views.
// Safe for concurrent use.
type Renderer struct {
	mu    sync.RWMutex
	views map[string]ViewFunc
}

// New creates an empty renderer.
func New() *Renderer {
	return &Renderer{views: make(map[string]ViewFunc)}
}

// Register adds or replaces the view for name.
func (r *Renderer) Register(name string, fn ViewFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[name] = fn
}

// Component registers a view that ignores params.
func (r *Renderer) Component(name string, c templ.Component) {
	r.Register(name, func(any) (templ.Component, error) {
		return c, nil
	})
}

// Func returns the hook to install with reqctx.WithRenderer.
func (r *Renderer) Func() reqctx.RenderFunc {
	return r.Render
}

// Render renders the named view with the request context and finalizes it
// through c.HTML, so staged headers and status apply.
func (r *Renderer) Render(c *reqctx.Context, name string, params any) (*response.Response, error) {
	r.mu.RLock()
	fn, ok := r.views[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	component, err := fn(params)
	if err != nil {
		return nil, errors.Join(ErrRender, err)
	}

	var buf bytes.Buffer
	if err := component.Render(c.Context(), &buf); err != nil {
		return nil, errors.Join(ErrRender, fmt.Errorf("%s: %w", name, err))
	}

	return c.HTML(buf.String())
}
