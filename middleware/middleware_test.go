package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

func okHandler(c *reqctx.Context) (*response.Response, error) {
	return c.Text("ok")
}

func do(h handler.HandlerFunc, req *http.Request, mws ...handler.Middleware) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.New(h, handler.WithMiddleware(mws...)).ServeHTTP(w, req)
	return w
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func readAll(r io.Reader) string {
	b, _ := io.ReadAll(r)
	return string(b)
}
