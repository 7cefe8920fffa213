package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// CORSConfig defines configuration options for CORS middleware.
type CORSConfig struct {
	// Skip allows bypassing CORS handling for specific requests
	Skip func(c *reqctx.Context) bool

	// AllowOrigins specifies allowed origins. Use "*" for all origins.
	// If empty, defaults to allowing all origins ("*")
	AllowOrigins []string

	// AllowMethods specifies allowed HTTP methods.
	// If empty, defaults to GET, HEAD, PUT, PATCH, POST, DELETE
	AllowMethods []string

	// AllowHeaders specifies allowed request headers.
	AllowHeaders []string

	// ExposeHeaders specifies which headers are exposed to the client
	ExposeHeaders []string

	// AllowCredentials indicates whether credentials are allowed.
	// Never sent together with a wildcard origin.
	AllowCredentials bool

	// MaxAge specifies how long preflight requests can be cached (in seconds)
	MaxAge int

	// AllowOriginFunc provides custom origin validation logic.
	// Takes precedence over AllowOrigins when set.
	AllowOriginFunc func(origin string) (string, bool)
}

// CORS returns a CORS middleware with default configuration.
// The default wildcard origin should only be used in development.
func CORS() handler.Middleware {
	return CORSWithConfig(CORSConfig{})
}

// CORSWithConfig returns a CORS middleware with custom configuration.
//
// Preflight requests are answered directly with 204 (or 403 for a
// disallowed origin or method). For other requests the CORS headers are
// applied to whatever response the handler produced, through a context
// bound to that response.
//
//	mw := middleware.CORSWithConfig(middleware.CORSConfig{
//		AllowOrigins:     []string{"https://app.example.com"},
//		AllowCredentials: true,
//		MaxAge:           86400,
//	})
func CORSWithConfig(cfg CORSConfig) handler.Middleware {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}

	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept",
			"Accept-Language",
			"Content-Language",
			"Content-Type",
			"Origin",
			"Authorization",
			"X-Request-ID",
		}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	allowOrigins := make(map[string]bool, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		allowOrigins[origin] = true
	}

	resolveOrigin := func(origin string) (string, bool) {
		switch {
		case cfg.AllowOriginFunc != nil:
			return cfg.AllowOriginFunc(origin)
		case len(cfg.AllowOrigins) == 0 || allowOrigins["*"]:
			return "*", true
		case allowOrigins[origin]:
			return origin, true
		}
		return "", false
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(c *reqctx.Context) (*response.Response, error) {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			req := c.Request()
			allowedOrigin, allowed := resolveOrigin(req.Header.Get("Origin"))
			credentials := cfg.AllowCredentials && allowedOrigin != "*"

			requestMethod := req.Header.Get("Access-Control-Request-Method")
			if req.Method == http.MethodOptions && requestMethod != "" {
				if !allowed || !slices.Contains(cfg.AllowMethods, requestMethod) {
					return c.Body(response.EmptyBody, reqctx.WithStatus(http.StatusForbidden))
				}

				headers := map[string]string{
					"Access-Control-Allow-Origin":  allowedOrigin,
					"Access-Control-Allow-Methods": allowMethods,
				}
				if req.Header.Get("Access-Control-Request-Headers") != "" {
					headers["Access-Control-Allow-Headers"] = allowHeaders
				}
				if credentials {
					headers["Access-Control-Allow-Credentials"] = "true"
				}
				if cfg.MaxAge > 0 {
					headers["Access-Control-Max-Age"] = strconv.Itoa(cfg.MaxAge)
				}

				resp, err := c.Body(response.EmptyBody,
					reqctx.WithStatus(http.StatusNoContent),
					reqctx.WithHeaders(headers),
				)
				if err != nil {
					return nil, err
				}
				resp.Header().Add("Vary", "Origin")
				resp.Header().Add("Vary", "Access-Control-Request-Method")
				resp.Header().Add("Vary", "Access-Control-Request-Headers")
				return resp, nil
			}

			resp, err := next(c)
			if err != nil || resp == nil || !allowed {
				return resp, err
			}

			bc := c.Bind(resp)
			bc.SetHeader("Access-Control-Allow-Origin", allowedOrigin)
			if credentials {
				bc.SetHeader("Access-Control-Allow-Credentials", "true")
			}
			if exposeHeaders != "" {
				bc.SetHeader("Access-Control-Expose-Headers", exposeHeaders)
			}
			resp.Header().Add("Vary", "Origin")

			return resp, nil
		}
	}
}

// AllowOriginWildcard returns an AllowOriginFunc that echoes any non-empty
// origin. Unlike "*" it can be combined with credentials.
func AllowOriginWildcard() func(origin string) (string, bool) {
	return func(origin string) (string, bool) {
		if origin == "" {
			return "", false
		}
		return origin, true
	}
}

// AllowOriginSubdomain returns an AllowOriginFunc that allows the domain
// and all of its subdomains, with or without a port.
// The domain is given without scheme, e.g. "example.com".
func AllowOriginSubdomain(domain string) func(origin string) (string, bool) {
	domain = strings.TrimPrefix(domain, "*.")
	domain = strings.TrimPrefix(domain, ".")
	domain = strings.ToLower(domain)
	suffix := "." + domain

	return func(origin string) (string, bool) {
		if origin == "" {
			return "", false
		}

		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return "", false
		}

		host := strings.ToLower(u.Hostname())
		if host == domain || strings.HasSuffix(host, suffix) {
			return origin, true
		}
		return "", false
	}
}
