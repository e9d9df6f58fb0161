package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gofrs/flock"
	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/item"
	"github.com/sdassow/atomic"
)

var _ Backend = (*FileStore)(nil)

// DefaultReloadInterval is how often the file is reloaded to pick up items
// written by other processes.
const DefaultReloadInterval = 5 * time.Second

type (
	// FileStore persists items to a JSON file, keyed by item ID. The file is
	// rewritten in full on every write. Writes from other processes sharing
	// the file are serialized with a lock file and merged on the next write.
	FileStore struct {
		path  string
		lock  *flock.Flock
		mu    sync.RWMutex
		items map[string]fileRecord

		reloadInterval time.Duration
	}

	// fileRecord stores text content as a plain string. Content that is not
	// valid UTF-8 goes in ContentBase64 instead, because encoding/json would
	// replace the invalid bytes.
	fileRecord struct {
		Content       string     `json:"content"`
		ContentBase64 []byte     `json:"content_base64,omitempty"`
		Token         string     `json:"token"`
		CreatedAt     *time.Time `json:"created_at,omitempty"`
	}
)

func newFileRecord(it *item.Item) fileRecord {
	rec := fileRecord{Token: it.Token}
	if utf8.Valid(it.Content) {
		rec.Content = string(it.Content)
	} else {
		rec.ContentBase64 = it.Content
	}
	if !it.CreatedAt.IsZero() {
		createdAt := it.CreatedAt
		rec.CreatedAt = &createdAt
	}
	return rec
}

func (r fileRecord) content() []byte {
	if r.ContentBase64 != nil {
		return r.ContentBase64
	}
	return []byte(r.Content)
}

// OpenFileStore opens the JSON file at path, which need not exist. Missing
// parent directories are created.
func OpenFileStore(path string) (*FileStore, error) {
	// the lock file lives alongside the data file
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s := &FileStore{
		path:           path,
		lock:           flock.New(path + ".lock"),
		reloadInterval: DefaultReloadInterval,
	}
	items, err := s.read()
	if err != nil {
		return nil, err
	}
	s.items = items
	return s, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		return nil, internal.ErrResourceNotFound
	}
	it := &item.Item{
		ID:      id,
		Content: rec.content(),
		Token:   rec.Token,
	}
	if rec.CreatedAt != nil {
		it.CreatedAt = *rec.CreatedAt
	}
	return it, nil
}

func (s *FileStore) Put(_ context.Context, it *item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	// pick up writes made by other processes since the last read
	items, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := items[it.ID]; ok {
		s.items = items
		return internal.ErrResourceAlreadyExists
	}
	items[it.ID] = newFileRecord(it)
	if err := s.write(items); err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *FileStore) List(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.items)), nil
}

// Start periodically reloads the file until the context is canceled.
func (s *FileStore) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.reloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.reload(); err != nil {
				return err
			}
		}
	}
}

func (s *FileStore) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("locking %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	items, err := s.read()
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

func (s *FileStore) Close() error {
	return s.lock.Close()
}

func (s *FileStore) read() (map[string]fileRecord, error) {
	items := make(map[string]fileRecord)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return items, nil
	} else if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return items, nil
}

// write replaces the file atomically.
func (s *FileStore) write(items map[string]fileRecord) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	// Ensure all parent directories of the file exist
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data), atomic.DefaultFileMode(0o600)); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
