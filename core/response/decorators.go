package response

import (
	"fmt"
	"net/http"
	"time"
)

// WithHeaders sets the given headers on the response and returns it.
// Nil responses are passed through.
func WithHeaders(resp *Response, headers map[string]string) *Response {
	if resp == nil {
		return nil
	}
	for k, v := range headers {
		resp.header.Set(k, v)
	}
	return resp
}

// WithCookie adds a Set-Cookie header to the response.
// Invalid cookies are silently dropped, as http.SetCookie does.
func WithCookie(resp *Response, cookie *http.Cookie) *Response {
	if resp == nil || cookie == nil {
		return resp
	}
	if v := cookie.String(); v != "" {
		resp.header.Add("Set-Cookie", v)
	}
	return resp
}

// WithCache sets cache control headers on the response.
// If maxAge > 0, sets Cache-Control and Expires headers for caching.
// If maxAge <= 0, sets headers to prevent caching.
func WithCache(resp *Response, maxAge time.Duration) *Response {
	if resp == nil {
		return nil
	}
	if maxAge > 0 {
		resp.header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
		resp.header.Set("Expires", time.Now().Add(maxAge).UTC().Format(http.TimeFormat))
		return resp
	}
	resp.header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	resp.header.Set("Pragma", "no-cache")
	resp.header.Set("Expires", "0")
	return resp
}
