package internal

import (
	"maps"
	"slices"
	"sync"
)

// SafeMap is a concurrency-safe map
type SafeMap[K comparable, V any] struct {
	m  map[K]V
	mu sync.RWMutex
}

// NewSafeMap constructs an empty SafeMap, with the given key and value types.
func NewSafeMap[K comparable, V any]() *SafeMap[K, V] {
	return &SafeMap[K, V]{
		m: make(map[K]V),
	}
}

func (r *SafeMap[K, V]) Set(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.m[key] = value
}

// SetIfAbsent sets the value only if the key is not already present, reporting
// whether the value was set.
func (r *SafeMap[K, V]) SetIfAbsent(key K, value V) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[key]; ok {
		return false
	}
	r.m[key] = value
	return true
}

func (r *SafeMap[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.m[key]
	return value, ok
}

// Keys returns a snapshot of the map's keys.
func (r *SafeMap[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Collect(maps.Keys(r.m))
}

func (r *SafeMap[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.m)
}
