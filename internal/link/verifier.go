package link

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strconv"
	"time"

	"github.com/leg100/rawlink/internal"
)

// DefaultWindow is the default period either side of a link's timestamp
// during which it is accepted.
const DefaultWindow = 10 * time.Second

type (
	// FetchRequest holds the parameters presented when fetching a raw link,
	// exactly as received.
	FetchRequest struct {
		ID             string
		Token          string
		Timestamp      string
		Signature      string
		ClientIdentity string
	}

	// Verifier verifies presented links before releasing content.
	Verifier struct {
		items  Items
		secret []byte
		window time.Duration
		policy OriginPolicy
		now    func() time.Time
	}
)

func newVerifier(items Items, secret []byte, window time.Duration, policy OriginPolicy, now func() time.Time) *Verifier {
	return &Verifier{
		items:  items,
		secret: secret,
		window: window,
		policy: policy,
		now:    now,
	}
}

// Verify checks a presented link and returns the item's content if it is
// valid. Checks are made in order and the first failure is returned as a
// *VerificationError wrapping one of the Err* sentinels.
func (v *Verifier) Verify(ctx context.Context, req FetchRequest) ([]byte, error) {
	it, err := v.items.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, internal.ErrResourceNotFound) {
			return nil, v.reject(req, ErrNotFound)
		}
		return nil, err
	}
	if req.Token == "" || req.Timestamp == "" || req.Signature == "" {
		return nil, v.reject(req, ErrMissingParameters)
	}
	if !equalTokens(req.Token, it.Token) {
		return nil, v.reject(req, ErrInvalidToken)
	}
	if !v.fresh(req.Timestamp) {
		return nil, v.reject(req, ErrExpired)
	}
	// The presented timestamp string is signed as-is, so any re-encoding of
	// the same number fails here.
	expected := Digest(v.secret, req.ID, req.Timestamp)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		return nil, v.reject(req, ErrInvalidSignature)
	}
	if !v.policy.Allow(req.ClientIdentity) {
		return nil, v.reject(req, ErrForbiddenOrigin)
	}
	return it.Content, nil
}

// fresh reports whether the timestamp is within the window of the current
// time, in whole seconds. A difference equal to the window is accepted.
func (v *Verifier) fresh(ts string) bool {
	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	now := v.now().Unix()
	window := int64(v.window / time.Second)
	return issued >= now-window && issued <= now+window
}

func (v *Verifier) reject(req FetchRequest, reason error) error {
	return &VerificationError{ID: req.ID, Reason: reason}
}

// equalTokens compares tokens in constant time. Both are hashed first so
// that neither their length nor their content affects timing.
func equalTokens(presented, actual string) bool {
	a := sha256.Sum256([]byte(presented))
	b := sha256.Sum256([]byte(actual))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
