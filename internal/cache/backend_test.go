// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"errors"
	"testing"
	"time"
)

// newBackends returns one instance of every backend for contract tests.
func newBackends(t *testing.T) map[string]Backend {
	t.Helper()

	bdg, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	backends := map[string]Backend{
		BackendMemory: NewMemory(time.Minute),
		BackendLRU:    NewLRU(16, time.Minute),
		BackendBadger: bdg,
	}
	t.Cleanup(func() {
		for _, b := range backends {
			_ = b.Close()
		}
	})
	return backends
}

func TestBackendContract(t *testing.T) {
	t.Parallel()

	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, ok := b.Get("missing"); ok {
				t.Fatal("expected miss for unknown key")
			}

			b.Set("k", []byte("v1"), time.Minute)
			got, ok := b.Get("k")
			if !ok || string(got) != "v1" {
				t.Fatalf("Get(k) = %q, %v", got, ok)
			}

			// Returned bytes are copies.
			got[0] = 'X'
			again, _ := b.Get("k")
			if string(again) != "v1" {
				t.Errorf("cached value was mutated through a returned slice: %q", again)
			}

			b.Set("k", []byte("v2"), time.Minute)
			if got, _ := b.Get("k"); string(got) != "v2" {
				t.Errorf("overwrite failed, got %q", got)
			}

			b.Delete("k")
			b.Delete("k")
			if _, ok := b.Get("k"); ok {
				t.Error("expected miss after Delete")
			}
		})
	}
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Minute)
	defer m.Close()

	m.Set("short", []byte("x"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := m.Get("short"); ok {
		t.Fatal("expected expired entry to miss")
	}
	stats := m.GetStats()
	if stats.Misses != 1 || stats.Evictions != 1 {
		t.Errorf("stats = %+v, want 1 miss and 1 eviction", stats)
	}
}

func TestMemoryCleanupAndStats(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Minute)
	defer m.Close()

	m.Set("a", []byte("1"), time.Millisecond)
	m.Set("b", []byte("2"), time.Hour)
	time.Sleep(5 * time.Millisecond)
	m.cleanup()

	if _, ok := m.Get("b"); !ok {
		t.Fatal("expected live entry to survive cleanup")
	}
	stats := m.GetStats()
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys = %d, want 1", stats.TotalKeys)
	}
	if m.HitRate() != 100 {
		t.Errorf("HitRate() = %v, want 100", m.HitRate())
	}

	m.Clear()
	if m.GetStats().TotalKeys != 0 {
		t.Error("expected Clear to empty the cache")
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	l := NewLRU(2, time.Minute)
	l.Set("a", []byte("1"), 0)
	l.Set("b", []byte("2"), 0)
	l.Get("a")
	l.Set("c", []byte("3"), 0)

	if _, ok := l.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if stats := l.GetStats(); stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 2 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 2 keys", stats)
	}
	if l.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", l.HitRate())
	}
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cfg     BackendConfig
		wantErr bool
	}{
		{BackendConfig{}, false},
		{BackendConfig{Type: BackendMemory, TTL: time.Second}, false},
		{BackendConfig{Type: BackendLRU}, false},
		{BackendConfig{Type: BackendBadger}, false},
		{BackendConfig{Type: "redis"}, true},
	}

	for _, tt := range tests {
		b, err := NewBackend(tt.cfg)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownBackend) {
				t.Errorf("NewBackend(%q) error = %v, want ErrUnknownBackend", tt.cfg.Type, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewBackend(%q) error = %v", tt.cfg.Type, err)
			continue
		}
		_ = b.Close()
	}
}
