/*
Package storage implements backends persisting items. Every backend is safe
for concurrent use: reads may run concurrently with a write, and writes are
serialized.
*/
package storage

import (
	"fmt"
	"io"
	"time"

	"github.com/leg100/rawlink/internal/item"
	"github.com/leg100/rawlink/internal/logr"
)

const (
	MemoryBackend = "memory"
	FileBackend   = "file"
	PebbleBackend = "pebble"

	DefaultBackend  = FileBackend
	DefaultDataPath = "scripts.json"
)

type (
	// Backend is an item store that holds resources until closed.
	Backend interface {
		item.Store
		io.Closer
	}

	// Config configures the storage backend.
	Config struct {
		// Backend is one of memory, file or pebble.
		Backend string
		// Path is the JSON file for the file backend, or the directory for
		// the pebble backend.
		Path string
		// CacheSize is the maximum read cache size in MB. Zero means
		// unlimited.
		CacheSize int
		// CacheTTL is the lifetime of read cache entries. Zero disables the
		// read cache.
		CacheTTL time.Duration
	}
)

// Open opens the configured backend, wrapped in a read cache if enabled.
func Open(logger logr.Logger, cfg Config) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case MemoryBackend:
		backend = NewMemoryStore()
	case FileBackend, "":
		if cfg.Path == "" {
			cfg.Path = DefaultDataPath
		}
		backend, err = OpenFileStore(cfg.Path)
	case PebbleBackend:
		if cfg.Path == "" {
			return nil, fmt.Errorf("pebble backend requires a data path")
		}
		backend, err = OpenPebbleStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unrecognised storage backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}
	logger.Info("opened store", "backend", cfg.Backend, "path", cfg.Path)

	if cfg.CacheTTL == 0 {
		return backend, nil
	}
	cached, err := NewCache(backend, cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		backend.Close()
		return nil, err
	}
	logger.Info("started cache", "max_size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	return cached, nil
}
