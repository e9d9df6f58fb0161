// Package item manages stored content items and their access tokens.
package item

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/leg100/rawlink/internal"
)

const (
	// idBytes is the number of random bytes in an item ID, which is rendered
	// as hex.
	idBytes = 4
	// tokenBytes is the number of random bytes in an access token, which is
	// rendered as unpadded base64url.
	tokenBytes = 12
)

type (
	// Item is uploaded content together with the access token bound to it at
	// creation. Items are never mutated.
	Item struct {
		ID        string
		Content   []byte
		Token     string
		CreatedAt time.Time
	}

	// Store persists items. Implementations must be safe for concurrent use:
	// readers may run concurrently with a writer.
	Store interface {
		// Get retrieves an item, returning internal.ErrResourceNotFound if
		// it does not exist.
		Get(ctx context.Context, id string) (*Item, error)
		// Put persists a new item, returning
		// internal.ErrResourceAlreadyExists if the ID is taken.
		Put(ctx context.Context, item *Item) error
		// List returns the IDs of all items in lexical order.
		List(ctx context.Context) ([]string, error)
	}
)

// New constructs an item with a fresh ID and access token.
func New(content []byte) (*Item, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	return &Item{
		ID:        id,
		Content:   content,
		Token:     token,
		CreatedAt: internal.CurrentTimestamp(),
	}, nil
}

// NewID generates a random item ID.
func NewID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating item id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewToken generates a random URL-safe access token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
