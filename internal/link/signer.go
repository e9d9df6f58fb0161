package link

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/leg100/rawlink/internal/item"
)

// RawPath is the path prefix of raw links.
const RawPath = "/raw/"

type (
	// Items retrieves items.
	Items interface {
		Get(ctx context.Context, id string) (*item.Item, error)
	}

	// SignedReference is a signed, time-limited reference to an item.
	SignedReference struct {
		ID        string
		Timestamp int64
		Signature string
	}

	// Signer signs references to items.
	Signer struct {
		items  Items
		secret []byte
		now    func() time.Time
	}
)

func newSigner(items Items, secret []byte, now func() time.Time) *Signer {
	return &Signer{items: items, secret: secret, now: now}
}

// Sign produces a reference to the item with the given ID, signed for the
// current second. ErrNotFound is returned if there is no such item.
func (s *Signer) Sign(ctx context.Context, id string) (SignedReference, error) {
	if _, err := s.items.Get(ctx, id); err != nil {
		return SignedReference{}, err
	}
	return s.sign(id), nil
}

// RawURL signs a reference to the item and renders it as a raw link rooted at
// base, embedding the item's access token.
func (s *Signer) RawURL(ctx context.Context, base, id string) (string, error) {
	it, err := s.items.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.sign(id).URL(base, it.Token), nil
}

func (s *Signer) sign(id string) SignedReference {
	ts := s.now().Unix()
	return SignedReference{
		ID:        id,
		Timestamp: ts,
		Signature: Digest(s.secret, id, strconv.FormatInt(ts, 10)),
	}
}

// URL renders the reference as a raw link rooted at base:
//
//	<base>/raw/<id>?token=<token>&ts=<timestamp>&sig=<signature>
func (ref SignedReference) URL(base, token string) string {
	return base + RawPath + url.PathEscape(ref.ID) +
		"?token=" + url.QueryEscape(token) +
		"&ts=" + strconv.FormatInt(ref.Timestamp, 10) +
		"&sig=" + ref.Signature
}
