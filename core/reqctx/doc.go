// Package reqctx provides the per-request context that stages response
// metadata across a middleware and handler chain and finalizes it into a
// concrete response.Response.
//
// A Context is created once per inbound request, passed by pointer through
// the chain and discarded once the response has been produced. It is owned
// by a single request and is not safe for concurrent use.
//
// # Staging
//
// Middleware and handlers stage headers, a status code and JSON formatting
// preferences:
//
//	c.SetHeader("X-Request-ID", id)
//	c.SetStatus(http.StatusCreated)
//	c.SetPrettyPrint(true)
//
// When the context was constructed with a bound response (WithResponse),
// SetHeader writes through to that response immediately and SetStatus is
// ignored with a warning, since the status is already committed.
//
// # Finalization
//
// Terminal methods produce a new *response.Response from the staged state
// and per-call overrides:
//
//	return c.JSON(user, reqctx.WithStatus(http.StatusOK))
//	return c.Text("pong")
//	return c.HTML(page, reqctx.WithHeader("Cache-Control", "no-store"))
//	return c.Redirect("/login")
//
// The status resolves to the per-call override, then the staged status,
// then 200. Override headers win over staged ones. Content-Length always
// reflects the exact byte length of the body.
//
// # Untyped payloads
//
// Respond accepts payloads crossing an untyped boundary, such as decoded
// plugin output, and rejects mismatched kinds with ErrTypeKind:
//
//	resp, err := c.Respond(reqctx.KindText, payload)
//	if errors.Is(err, reqctx.ErrTypeKind) {
//		// contract violation
//	}
package reqctx
