// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package cache provides the version lookup cache and its storage backends.
//
// A VersionCache groups results per natural-key identity so that a single
// write can clear every cached lookup of that identity at once. The bytes it
// stores are produced and consumed by the temporal store; backends only move
// opaque values with a time-to-live.
package cache

import (
	"errors"
	"fmt"
	"time"
)

// Backend is the storage behind a VersionCache. Implementations must be safe
// for concurrent use and must honour the ttl passed to Set where they can.
type Backend interface {
	// Get returns a copy of the value stored under key.
	Get(key string) ([]byte, bool)

	// Set stores value under key for ttl.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes key; deleting a missing key is a no-op.
	Delete(key string)

	// Close releases background resources.
	Close() error
}

// StatsReporter is implemented by backends that count their lookups. The
// memory and lru backends do; badger does not.
type StatsReporter interface {
	GetStats() Stats
	HitRate() float64
}

// Backend types.
const (
	BackendMemory = "memory"
	BackendLRU    = "lru"
	BackendBadger = "badger"
)

// BackendConfig selects and sizes a backend.
type BackendConfig struct {
	Type string

	// TTL is the default time-to-live.
	TTL time.Duration

	// Capacity bounds the lru backend.
	Capacity int

	// BadgerPath is the badger directory; empty keeps badger in memory.
	BadgerPath string
}

// ErrUnknownBackend is returned by NewBackend for an unsupported type.
var ErrUnknownBackend = errors.New("unknown cache backend")

// NewBackend builds the backend named by cfg.Type.
//
//	backend, err := cache.NewBackend(cache.BackendConfig{Type: cache.BackendLRU, TTL: time.Hour, Capacity: 10000})
func NewBackend(cfg BackendConfig) (Backend, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	switch cfg.Type {
	case "", BackendMemory:
		return NewMemory(cfg.TTL), nil
	case BackendLRU:
		capacity := cfg.Capacity
		if capacity <= 0 {
			capacity = 10000
		}
		return NewLRU(capacity, cfg.TTL), nil
	case BackendBadger:
		return OpenBadger(cfg.BadgerPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Type)
	}
}

var (
	_ Backend = (*Memory)(nil)
	_ Backend = (*LRU)(nil)
	_ Backend = (*Badger)(nil)
)
