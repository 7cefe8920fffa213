package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/flare/core/render"
)

type homeData struct {
	AppName string
}

// homePage is written by hand against the templ runtime so the demo does
// not depend on the templ code generator.
func homePage(data homeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<!doctype html><html><head><title>%[1]s</title></head><body><h1>%[1]s</h1><p>It works.</p></body></html>",
			templ.EscapeString(data.AppName),
		)
		return err
	})
}

func registerViews(r *render.Renderer) {
	r.Register("home", func(params any) (templ.Component, error) {
		data, ok := params.(homeData)
		if !ok {
			return nil, fmt.Errorf("home view: unexpected params %T", params)
		}
		return homePage(data), nil
	})
}
