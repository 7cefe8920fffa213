package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
	"github.com/dmitrymomot/flare/middleware"
)

func post(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func echoBody(c *reqctx.Context) (*response.Response, error) {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.Text("too large while reading", reqctx.WithStatus(http.StatusRequestEntityTooLarge))
		}
		return nil, err
	}
	return c.Text(string(data))
}

func TestBodyLimitWithinLimit(t *testing.T) {
	t.Parallel()

	w := do(echoBody, post("hello", "text/plain"), middleware.BodyLimitWithSize(10))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestBodyLimitContentLengthRejected(t *testing.T) {
	t.Parallel()

	called := false
	h := func(c *reqctx.Context) (*response.Response, error) {
		called = true
		return c.Text("ok")
	}

	w := do(h, post(strings.Repeat("x", 20), "text/plain"), middleware.BodyLimitWithSize(10))

	assert.False(t, called)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, reqctx.ContentTypeJSON, w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Request body too large. Size: 20 bytes, Maximum allowed: 10 bytes","size":20,"limit":10}`, w.Body.String())
}

func TestBodyLimitEnforcedWhileReading(t *testing.T) {
	t.Parallel()

	mw := middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		MaxSize:                   10,
		DisableContentLengthCheck: true,
	})

	w := do(echoBody, post(strings.Repeat("x", 20), "text/plain"), mw)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "too large while reading", readAll(w.Body))
}

func TestBodyLimitPerContentType(t *testing.T) {
	t.Parallel()

	mw := middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		MaxSize:          5,
		ContentTypeLimit: map[string]int64{"application/json": 100},
	})

	w := do(echoBody, post(`{"name":"a long enough value"}`, "application/json; charset=utf-8"), mw)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(echoBody, post("too long text", "text/plain"), mw)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodyLimitCustomErrorHandler(t *testing.T) {
	t.Parallel()

	mw := middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		MaxSize: 1 * middleware.KB,
		ErrorHandler: func(c *reqctx.Context, size, limit int64) (*response.Response, error) {
			return c.Text("nope", reqctx.WithStatus(http.StatusBadRequest))
		},
	})

	w := do(echoBody, post(strings.Repeat("x", 2048), ""), mw)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "nope", w.Body.String())
}
