// Package handler connects request contexts to net/http.
//
// A HandlerFunc receives the *reqctx.Context of the request and returns the
// finalized response. Middleware wraps handlers and stages headers on the
// context before calling next:
//
//	func poweredBy(next handler.HandlerFunc) handler.HandlerFunc {
//		return func(c *reqctx.Context) (*response.Response, error) {
//			c.SetHeader("X-Powered-By", "flare")
//			return next(c)
//		}
//	}
//
// New adapts a HandlerFunc to http.Handler. For every request it creates a
// lifecycle event and a context, runs the chain, recovers panics, converts
// errors through the ErrorHandler and renders the response:
//
//	mux := http.NewServeMux()
//	mux.Handle("GET /users/{id}", handler.New(getUser,
//		handler.WithMiddleware(poweredBy),
//		handler.WithLogger(log),
//	))
//
// After runs code once the response exists. Its callback gets a context
// bound to that response, so headers are written straight into it:
//
//	handler.After(func(c *reqctx.Context) {
//		c.SetHeader("X-Served-At", time.Now().UTC().Format(time.RFC3339))
//	})
package handler
