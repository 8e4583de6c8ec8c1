package http

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginResolver(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page=2", nil)
	req.Host = "shop.test:8000"

	direct := originResolver{}
	assert.Equal(t, "http://shop.test:8000", direct.origin(req))
	assert.Equal(t, "http://shop.test:8000/products?page=2", direct.url(req).String())

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://shop.test:8000", direct.origin(req))

	req.TLS = nil
	req.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	assert.Equal(t, "http://shop.test:8000", direct.origin(req))

	proxied := originResolver{trustForwardedProto: true}
	assert.Equal(t, "https://shop.test:8000", proxied.origin(req))
	assert.Equal(t, "https://shop.test:8000/products?page=2", proxied.url(req).String())
}
