package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"
)

// ErrCacheDown is returned by a FakeCache with failure injection enabled.
var ErrCacheDown = errors.New("cache store unreachable")

// FakeCache is an in-memory stand-in for *cache.Client. It records the TTL
// of every write and can simulate an unreachable cache store, so tests can
// verify both the cache-aside protocol and the degrade policy.
type FakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration

	// Fail makes every operation return ErrCacheDown.
	Fail bool

	// Counters for assertions.
	Gets, Sets, Deletes int
}

// NewFakeCache creates an empty fake cache.
func NewFakeCache() *FakeCache {
	return &FakeCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

// GetJSON unmarshals the stored entry into dest.
func (f *FakeCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Gets++
	if f.Fail {
		return false, ErrCacheDown
	}
	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal cache entry %q: %w", key, err)
	}
	return true, nil
}

// Set stores the JSON-marshaled value and records its TTL.
func (f *FakeCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Sets++
	if f.Fail {
		return ErrCacheDown
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	f.ttls[key] = ttl
	return nil
}

// Delete removes the given keys.
func (f *FakeCache) Delete(_ context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deletes++
	if f.Fail {
		return 0, ErrCacheDown
	}
	var removed int64
	for _, key := range keys {
		if _, ok := f.entries[key]; ok {
			delete(f.entries, key)
			delete(f.ttls, key)
			removed++
		}
	}
	return removed, nil
}

// DeletePattern removes every key matching the glob pattern.
func (f *FakeCache) DeletePattern(_ context.Context, pattern string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Fail {
		return 0, ErrCacheDown
	}
	var removed int64
	for key := range f.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(f.entries, key)
			delete(f.ttls, key)
			removed++
		}
	}
	return removed, nil
}

// Has reports whether a key is present.
func (f *FakeCache) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok
}

// TTLOf returns the TTL recorded for the key's last write.
func (f *FakeCache) TTLOf(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ttl, ok := f.ttls[key]
	return ttl, ok
}

// Put stores a raw JSON payload directly, bypassing marshaling. Tests use it
// to plant stale entries.
func (f *FakeCache) Put(key string, data []byte, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	f.ttls[key] = ttl
}

// Keys returns all present keys.
func (f *FakeCache) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.entries))
	for key := range f.entries {
		keys = append(keys, key)
	}
	return keys
}
