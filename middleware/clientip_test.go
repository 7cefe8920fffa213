package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
	"github.com/dmitrymomot/flare/middleware"
)

func TestClientIPStoredInContext(t *testing.T) {
	t.Parallel()

	var captured string
	h := func(c *reqctx.Context) (*response.Response, error) {
		captured, _ = middleware.GetClientIP(c)
		return c.Text("ok")
	}

	req := get("/")
	req.RemoteAddr = "172.16.0.1:54321"
	req.Header.Set("X-Forwarded-For", "198.51.100.178, 10.0.0.1")

	w := do(h, req, middleware.ClientIP())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "198.51.100.178", captured)
	assert.Empty(t, w.Header().Get("X-Client-IP"))
}

func TestClientIPStoreInHeader(t *testing.T) {
	t.Parallel()

	var found bool
	h := func(c *reqctx.Context) (*response.Response, error) {
		_, found = middleware.GetClientIP(c)
		return c.Text("ok")
	}

	req := get("/")
	req.RemoteAddr = "[2001:db8::1]:54321"

	w := do(h, req, middleware.ClientIPWithConfig(middleware.ClientIPConfig{StoreInHeader: true}))
	assert.False(t, found)
	assert.Equal(t, "2001:db8::1", w.Header().Get("X-Client-IP"))
}

func TestClientIPValidation(t *testing.T) {
	t.Parallel()

	mw := middleware.ClientIPWithConfig(middleware.ClientIPConfig{
		ValidateFunc: func(_ *reqctx.Context, ip string) error {
			if ip == "192.168.1.50" {
				return errors.New("blocked")
			}
			return nil
		},
	})

	called := false
	h := func(c *reqctx.Context) (*response.Response, error) {
		called = true
		return c.Text("ok")
	}

	req := get("/")
	req.RemoteAddr = "192.168.1.50:54321"

	w := do(h, req, mw)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)

	req = get("/")
	req.RemoteAddr = "192.168.1.51:54321"

	w = do(h, req, mw)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestClientIPNotFoundWithoutMiddleware(t *testing.T) {
	t.Parallel()

	h := func(c *reqctx.Context) (*response.Response, error) {
		ip, ok := middleware.GetClientIP(c)
		assert.False(t, ok)
		assert.Empty(t, ip)
		return c.Text("ok")
	}

	do(h, get("/"))
}
