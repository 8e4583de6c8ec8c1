package http

import (
	"net/http"
	"net/url"
	"strings"
)

// originResolver derives the absolute URLs used in links. X-Forwarded-Proto
// is only honoured when the service runs behind a proxy that sets it.
type originResolver struct {
	trustForwardedProto bool
}

func (o originResolver) scheme(r *http.Request) string {
	if o.trustForwardedProto {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme, _, _ := strings.Cut(proto, ",")
			return strings.ToLower(strings.TrimSpace(scheme))
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// origin returns the scheme and host the client used, e.g.
// "http://localhost:8000".
func (o originResolver) origin(r *http.Request) string {
	return o.scheme(r) + "://" + r.Host
}

// url returns the absolute URL of the request.
func (o originResolver) url(r *http.Request) *url.URL {
	return &url.URL{
		Scheme:   o.scheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
}
