// Package middleware provides handler middleware that stages response
// metadata on the request context.
//
//   - RequestID assigns an ID per request and stages it as a response header.
//   - ClientIP resolves the client address from proxy headers.
//   - SecurityHeaders stages common security headers.
//   - CORS answers preflight requests and adds allow headers to responses.
//   - BodyLimit rejects request bodies above a size limit.
//   - Logging logs each finalized response with status, size and latency.
//
// Middleware is passed to handler.New:
//
//	h := handler.New(getUser, handler.WithMiddleware(
//		middleware.RequestID(),
//		middleware.ClientIP(),
//		middleware.Logging(),
//		middleware.SecurityHeaders(),
//		middleware.CORSWithConfig(middleware.CORSConfig{
//			AllowOrigins: []string{"https://app.example.com"},
//		}),
//		middleware.BodyLimitWithSize(middleware.MB),
//	))
//
// Most middleware stages headers before calling next. CORS needs the final
// response, so it binds the context to it and sets headers there:
//
//	resp, err := next(c)
//	if err != nil || resp == nil {
//		return resp, err
//	}
//	c.Bind(resp).SetHeader("Access-Control-Allow-Origin", origin)
package middleware
