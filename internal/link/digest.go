// Package link issues and verifies time-limited signed links to stored items.
package link

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// CanonicalMessage constructs the bytes that are signed for a link: the item
// ID immediately followed by the timestamp, with no delimiter.
func CanonicalMessage(id, ts string) []byte {
	msg := make([]byte, 0, len(id)+len(ts))
	msg = append(msg, id...)
	return append(msg, ts...)
}

// Digest computes the lowercase hex HMAC-SHA256 of the canonical message for
// the given item ID and timestamp. Both signing and verification call it.
func Digest(secret []byte, id, ts string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(CanonicalMessage(id, ts))
	return hex.EncodeToString(mac.Sum(nil))
}
