package http

import (
	"net/http"
	"net/url"
	"strings"
)

// Absolute returns an absolute URL for the given path, using the scheme and
// host of the request. Proxy headers take precedence over the request's own
// values.
func Absolute(r *http.Request, path string) string {
	u := url.URL{
		Scheme: "http",
		Host:   r.Host,
	}
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if host := r.Header.Get("X-Forwarded-Host"); host != "" {
		u.Host = strings.TrimSpace(strings.Split(host, ",")[0])
	}
	return u.String() + path
}

// ParseURL parses a URL string, adding the http scheme if it is missing.
func ParseURL(rawURL string) (*url.URL, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}
	return url.Parse(rawURL)
}
