// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"sync"
	"testing"
	"time"
)

func newVersionCache(t *testing.T) *VersionCache {
	t.Helper()
	vc := NewVersionCache(NewMemory(time.Minute), time.Minute)
	t.Cleanup(func() { _ = vc.Close() })
	return vc
}

func TestVersionCacheGetPut(t *testing.T) {
	t.Parallel()

	vc := newVersionCache(t)
	current := Key{Family: "map", Identity: "h1", Operation: "current"}
	all := Key{Family: "map", Identity: "h1", Operation: "all"}

	if _, ok := vc.Get(current); ok {
		t.Fatal("expected miss on empty cache")
	}

	vc.Put(current, []byte(`[{"id":1}]`), vc.Epoch())
	vc.Put(all, []byte(`[{"id":1},{"id":2}]`), vc.Epoch())

	got, ok := vc.Get(current)
	if !ok || string(got) != `[{"id":1}]` {
		t.Fatalf("Get(current) = %s, %v", got, ok)
	}
	got, ok = vc.Get(all)
	if !ok || string(got) != `[{"id":1},{"id":2}]` {
		t.Fatalf("Get(all) = %s, %v", got, ok)
	}
}

func TestVersionCacheStats(t *testing.T) {
	t.Parallel()

	vc := newVersionCache(t)
	key := Key{Family: "layer", Identity: "h2", Operation: "current"}
	vc.Get(key)
	vc.Put(key, []byte(`[]`), vc.Epoch())
	vc.Get(key)

	stats, rate, ok := vc.Stats()
	if !ok {
		t.Fatal("memory backend should report stats")
	}
	// Put reads the entry before writing it, so the backend sees two misses.
	if stats.Hits != 1 || stats.Misses != 2 || rate < 33 || rate > 34 {
		t.Errorf("stats = %+v, rate = %v", stats, rate)
	}

	badger, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	bvc := NewVersionCache(badger, time.Minute)
	t.Cleanup(func() { _ = bvc.Close() })
	if _, _, ok := bvc.Stats(); ok {
		t.Error("badger backend does not count lookups")
	}
	if _, _, ok := (*VersionCache)(nil).Stats(); ok {
		t.Error("nil cache has no stats")
	}
}

func TestVersionCacheInvalidateClearsIdentity(t *testing.T) {
	t.Parallel()

	vc := newVersionCache(t)
	a1 := Key{Family: "layer", Identity: "a", Operation: "current"}
	a2 := Key{Family: "layer", Identity: "a", Operation: "at", Params: "2015-01-01T00:00:00Z"}
	b := Key{Family: "layer", Identity: "b", Operation: "current"}
	other := Key{Family: "map", Identity: "a", Operation: "current"}

	for _, k := range []Key{a1, a2, b, other} {
		vc.Put(k, []byte(`1`), vc.Epoch())
	}

	vc.Invalidate(Key{Family: "layer", Identity: "a"})

	for _, k := range []Key{a1, a2} {
		if _, ok := vc.Get(k); ok {
			t.Errorf("expected %+v to be invalidated", k)
		}
	}
	for _, k := range []Key{b, other} {
		if _, ok := vc.Get(k); !ok {
			t.Errorf("expected %+v to survive", k)
		}
	}
}

func TestVersionCacheDropsStalePut(t *testing.T) {
	t.Parallel()

	vc := newVersionCache(t)
	k := Key{Family: "map", Identity: "x", Operation: "current"}

	epoch := vc.Epoch()
	vc.Invalidate(k)
	vc.Put(k, []byte(`"stale"`), epoch)

	if _, ok := vc.Get(k); ok {
		t.Fatal("expected put with an outdated epoch to be dropped")
	}
}

func TestVersionCacheParamsDistinguishResults(t *testing.T) {
	t.Parallel()

	vc := newVersionCache(t)
	jan := Key{Family: "map", Identity: "x", Operation: "at", Params: "2015-01-01T00:00:00Z"}
	feb := Key{Family: "map", Identity: "x", Operation: "at", Params: "2015-02-01T00:00:00Z"}

	vc.Put(jan, []byte(`"jan"`), vc.Epoch())
	if _, ok := vc.Get(feb); ok {
		t.Fatal("different params must not share a result")
	}
}

func TestNilVersionCache(t *testing.T) {
	t.Parallel()

	var vc *VersionCache
	k := Key{Family: "map", Identity: "x", Operation: "all"}
	vc.Put(k, []byte(`1`), vc.Epoch())
	vc.Invalidate(k)
	if _, ok := vc.Get(k); ok {
		t.Fatal("nil cache must always miss")
	}
	if err := vc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestVersionCacheConcurrentUse(t *testing.T) {
	t.Parallel()

	vc := NewVersionCache(NewLRU(64, time.Minute), time.Minute)
	defer vc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := Key{Family: "map", Identity: "shared", Operation: "op", Params: string(rune('a' + i))}
			for j := 0; j < 100; j++ {
				vc.Put(k, []byte(`true`), vc.Epoch())
				vc.Get(k)
				if j%10 == 0 {
					vc.Invalidate(k)
				}
			}
		}(i)
	}
	wg.Wait()
}
