package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/item"
)

var _ Backend = (*PebbleStore)(nil)

var prefixItem = []byte("item:")

// PebbleStore persists items to an embedded pebble database.
type PebbleStore struct {
	db *pebble.DB
	// mu serializes the existence check and write in Put.
	mu sync.Mutex
}

// OpenPebbleStore opens a pebble database in the directory, creating it if
// necessary.
func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(_ context.Context, id string) (*item.Item, error) {
	val, closer, err := s.db.Get(itemKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, internal.ErrResourceNotFound
		}
		return nil, err
	}
	defer closer.Close()

	return decodeItem(id, val)
}

func (s *PebbleStore) Put(_ context.Context, it *item.Item) error {
	val, err := encodeItem(it)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := itemKey(it.ID)
	_, closer, err := s.db.Get(key)
	if err == nil {
		closer.Close()
		return internal.ErrResourceAlreadyExists
	} else if !errors.Is(err, pebble.ErrNotFound) {
		return err
	}
	return s.db.Set(key, val, pebble.Sync)
}

func (s *PebbleStore) List(context.Context) ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixItem,
		UpperBound: incrementByte(prefixItem),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, string(iter.Key()[len(prefixItem):]))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func itemKey(id string) []byte {
	key := make([]byte, 0, len(prefixItem)+len(id))
	key = append(key, prefixItem...)
	return append(key, id...)
}

func incrementByte(b []byte) []byte {
	res := make([]byte, len(b))
	copy(res, b)
	for i := len(res) - 1; i >= 0; i-- {
		res[i]++
		if res[i] != 0 {
			return res
		}
	}
	return nil
}
