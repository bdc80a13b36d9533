// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Stats tracks backend effectiveness.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Memory is an in-process TTL map. Expired entries are dropped on access and
// by a periodic sweep that stops on Close.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// cleanupInterval is how often Memory sweeps expired entries.
const cleanupInterval = 5 * time.Minute

// NewMemory creates a Memory backend with the given default ttl.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
		stats:   Stats{LastCleanup: time.Now()},
	}
	go m.cleanupLoop()
	return m
}

// Get returns a copy of the value so callers can never mutate cached bytes.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		m.record(func(s *Stats) { s.Misses++ })
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		if cur, still := m.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		m.record(func(s *Stats) { s.Misses++; s.Evictions++ })
		return nil, false
	}

	m.record(func(s *Stats) { s.Hits++ })
	return append([]byte(nil), e.data...), true
}

// Set stores a copy of value. A non-positive ttl uses the default.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	m.mu.Lock()
	m.entries[key] = entry{data: append([]byte(nil), value...), expiresAt: time.Now().Add(ttl)}
	n := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) { s.TotalKeys = n })
}

// Delete removes key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	_, existed := m.entries[key]
	delete(m.entries, key)
	n := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) {
		if existed {
			s.Evictions++
		}
		s.TotalKeys = n
	})
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	evicted := int64(len(m.entries))
	m.entries = make(map[string]entry)
	m.mu.Unlock()

	m.record(func(s *Stats) { s.Evictions += evicted; s.TotalKeys = 0 })
}

// Close stops the cleanup loop.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// GetStats returns a snapshot of the counters.
func (m *Memory) GetStats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// HitRate returns hits as a percentage of lookups.
func (m *Memory) HitRate() float64 {
	return hitRate(m.GetStats())
}

func hitRate(s Stats) float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

func (m *Memory) record(update func(*Stats)) {
	m.statsMu.Lock()
	update(&m.stats)
	m.statsMu.Unlock()
}

func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *Memory) cleanup() {
	now := time.Now()

	m.mu.Lock()
	var evicted int64
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			evicted++
		}
	}
	n := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) {
		s.Evictions += evicted
		s.TotalKeys = n
		s.LastCleanup = now
	})
}
