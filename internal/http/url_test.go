package http

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsolute(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://links.example.com/signed/abc123", nil)
		assert.Equal(t, "http://links.example.com/raw/abc123", Absolute(r, "/raw/abc123"))
	})

	t.Run("tls", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/signed/abc123", nil)
		r.Host = "links.example.com"
		r.TLS = &tls.ConnectionState{}
		assert.Equal(t, "https://links.example.com", Absolute(r, ""))
	})

	t.Run("behind proxy", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://10.0.0.1:10000/signed/abc123", nil)
		r.Header.Set("X-Forwarded-Proto", "HTTPS, http")
		r.Header.Set("X-Forwarded-Host", "links.example.com, proxy.internal")
		assert.Equal(t, "https://links.example.com/raw/abc123", Absolute(r, "/raw/abc123"))
	})
}

func TestParseURL(t *testing.T) {
	u, err := ParseURL("localhost:10000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:10000", u.String())

	u, err = ParseURL("https://links.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
}
