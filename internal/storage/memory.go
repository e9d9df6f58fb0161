package storage

import (
	"context"
	"slices"

	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/item"
)

var _ Backend = (*MemoryStore)(nil)

// MemoryStore keeps items in memory. Items are lost when the process exits.
type MemoryStore struct {
	items *internal.SafeMap[string, *item.Item]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: internal.NewSafeMap[string, *item.Item]()}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*item.Item, error) {
	it, ok := s.items.Get(id)
	if !ok {
		return nil, internal.ErrResourceNotFound
	}
	return it, nil
}

func (s *MemoryStore) Put(_ context.Context, it *item.Item) error {
	if !s.items.SetIfAbsent(it.ID, it) {
		return internal.ErrResourceAlreadyExists
	}
	return nil
}

func (s *MemoryStore) List(context.Context) ([]string, error) {
	ids := s.items.Keys()
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) Close() error { return nil }
