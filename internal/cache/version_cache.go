// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/metrics"
)

// DefaultTTL is the lifetime of a cached lookup when none is configured.
const DefaultTTL = time.Hour

// Key identifies one cached lookup. Family and Identity select the entry that
// a write invalidates; Operation and Params select the result inside it.
// Params must already be canonical (fixed field order, UTC timestamps).
type Key struct {
	Family    string
	Identity  string
	Operation string
	Params    string
}

func (k Key) entryKey() string {
	return "version:" + k.Family + ":" + k.Identity
}

func (k Key) signature() string {
	return k.Operation + "(" + k.Params + ")"
}

// VersionCache caches lookup results per natural-key identity.
//
// Every identity owns one backend entry holding a map from operation
// signature to encoded result, so Invalidate clears all lookups of an
// identity with a single delete. The epoch protocol keeps a lookup that
// raced with a write from repopulating the entry with stale data:
//
//	epoch := vc.Epoch()
//	if data, ok := vc.Get(key); ok { ... }
//	data := load()
//	vc.Put(key, data, epoch) // dropped if anything was invalidated meanwhile
//
// A nil *VersionCache is valid and caches nothing.
type VersionCache struct {
	backend Backend
	ttl     time.Duration

	// mu serialises read-modify-write of entries.
	mu    sync.Mutex
	epoch atomic.Uint64
}

// NewVersionCache wraps backend; ttl <= 0 means DefaultTTL.
func NewVersionCache(backend Backend, ttl time.Duration) *VersionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &VersionCache{backend: backend, ttl: ttl}
}

// Epoch returns the invalidation counter to pass to Put.
func (c *VersionCache) Epoch() uint64 {
	if c == nil {
		return 0
	}
	return c.epoch.Load()
}

// Get returns the cached result for key.
func (c *VersionCache) Get(key Key) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	entry, ok := c.load(key.entryKey())
	if !ok {
		metrics.RecordCacheLookup(key.Family, false)
		return nil, false
	}
	data, ok := entry[key.signature()]
	metrics.RecordCacheLookup(key.Family, ok)
	return data, ok
}

// Put stores value for key unless an invalidation happened after epoch was
// read.
func (c *VersionCache) Put(key Key, value []byte, epoch uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch.Load() != epoch {
		return
	}
	entry, ok := c.load(key.entryKey())
	if !ok {
		entry = make(map[string]json.RawMessage, 1)
	}
	entry[key.signature()] = value

	data, err := json.Marshal(entry)
	if err != nil {
		logging.Warn().Err(err).Str("family", key.Family).Msg("failed to encode version cache entry")
		return
	}
	c.backend.Set(key.entryKey(), data, c.ttl)
}

// Invalidate clears every cached lookup of the identity of key. Operation and
// Params are ignored.
func (c *VersionCache) Invalidate(key Key) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.epoch.Add(1)
	c.backend.Delete(key.entryKey())
	c.mu.Unlock()
	metrics.RecordCacheInvalidation(key.Family)
}

// Stats returns the backend counters. ok is false when the backend does not
// count lookups.
func (c *VersionCache) Stats() (stats Stats, hitRate float64, ok bool) {
	if c == nil {
		return Stats{}, 0, false
	}
	reporter, ok := c.backend.(StatsReporter)
	if !ok {
		return Stats{}, 0, false
	}
	return reporter.GetStats(), reporter.HitRate(), true
}

// Close closes the backend.
func (c *VersionCache) Close() error {
	if c == nil {
		return nil
	}
	return c.backend.Close()
}

func (c *VersionCache) load(entryKey string) (map[string]json.RawMessage, bool) {
	raw, ok := c.backend.Get(entryKey)
	if !ok {
		return nil, false
	}
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		logging.Warn().Err(err).Str("entry", entryKey).Msg("dropping undecodable version cache entry")
		c.backend.Delete(entryKey)
		return nil, false
	}
	return entry, true
}
