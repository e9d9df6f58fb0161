package internal

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignedURL(t *testing.T) {
	signer := NewSigner([]byte("abcdefghijklmnop"))

	r := mux.NewRouter()
	signed := r.PathPrefix("/signed/{signature.expiry}").Subrouter()
	signed.Use(VerifySignedURL(signer))
	signed.HandleFunc("/issue/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mux.Vars(r)["id"]))
	})

	t.Run("valid", func(t *testing.T) {
		u, err := signer.Sign("/issue/abc123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", u, nil))
		assert.Equal(t, 200, w.Code, w.Body.String())
		assert.Equal(t, "abc123", w.Body.String())
	})

	t.Run("expired", func(t *testing.T) {
		u, err := signer.Sign("/issue/abc123", time.Now().Add(-time.Hour))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", u, nil))
		assert.Equal(t, 401, w.Code)
	})

	t.Run("signed with different secret", func(t *testing.T) {
		u, err := NewSigner([]byte("0000000000000000")).Sign("/issue/abc123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", u, nil))
		assert.Equal(t, 401, w.Code)
	})
}

func TestDeriveKey(t *testing.T) {
	secret := []byte("abcdefghijklmnop")

	key := DeriveKey(secret, "share")
	assert.Len(t, key, 32)
	assert.Equal(t, key, DeriveKey(secret, "share"))
	assert.NotEqual(t, secret, key)
	assert.NotEqual(t, key, DeriveKey(secret, "other"))
	assert.NotEqual(t, key, DeriveKey([]byte("0000000000000000"), "share"))
	assert.Equal(t, "ebb7b38e4255e1b88457b459821f165234d2225f0e7a4d9af207e0b4d21e8efa", hex.EncodeToString(key))

	t.Run("url signed with underlying secret is rejected", func(t *testing.T) {
		u, err := NewSigner(secret).Sign("/issue/abc123", time.Now().Add(time.Hour))
		require.NoError(t, err)

		assert.Error(t, NewSigner(key).Verify(u))
	})
}
