package reqctx

import (
	"net/http"
	"net/url"
	"strings"
)

// IsAbsoluteURL reports whether s is a URL with both a scheme and a host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// resolveLocation makes location absolute by replacing the path of the
// request URL. Scheme, host and port of the request are kept; its query
// and fragment are dropped in favour of those of location, if any.
func (c *Context) resolveLocation(location string) string {
	if c.isAbsoluteURL(location) || c.req == nil || c.req.URL == nil {
		return location
	}

	u := requestURL(c.req)

	ref, err := url.Parse(location)
	if err != nil || ref.Host != "" {
		// Protocol-relative locations stay on the request host.
		u.Path = ensureLeadingSlash(location)
		return u.String()
	}

	u.Path = ensureLeadingSlash(ref.Path)
	if ref.RawPath != "" {
		u.RawPath = ensureLeadingSlash(ref.RawPath)
	}
	u.RawQuery = ref.RawQuery
	u.Fragment = ref.Fragment
	u.RawFragment = ref.RawFragment
	return u.String()
}

// requestURL reconstructs the absolute URL of the request without its
// query and fragment.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	if u.Host == "" {
		u.Host = r.Host
	}
	u.Opaque = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return &u
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
