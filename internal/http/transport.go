package http

import (
	"crypto/tls"
	"net/http"
)

var DefaultTransport http.RoundTripper = http.DefaultTransport

// InsecureTransport skips verification of certificates presented by the
// server, for use against a daemon serving a self-signed certificate.
var InsecureTransport http.RoundTripper

func init() {
	// Assign InsecureTransport package variable.
	clone := http.DefaultTransport.(*http.Transport).Clone()
	clone.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true,
	}
	InsecureTransport = clone
}
