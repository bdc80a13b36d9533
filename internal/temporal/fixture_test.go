// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/spatial/internal/cache"
)

// widget is a minimal versioned entity used across the package tests.
type widget struct {
	Record
	Code  string         `json:"code"`
	Color string         `json:"color"`
	Attrs map[string]any `json:"attrs,omitempty"`
	Owner *owner         `json:"owner,omitempty"`
}

type owner struct {
	Name string `json:"name"`
}

func (w *widget) NaturalKey() NaturalKey {
	return NaturalKey{EffectiveTo: w.EffectiveTo, Identity: Identity{w.Code}}
}

func (w *widget) CompareFields() []Field {
	return []Field{
		Scalar("code", w.Code),
		Scalar("color", w.Color),
		Structured("attrs", w.Attrs),
		Relation("owner", w.Owner, w.Owner != nil),
	}
}

var (
	jan = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb = time.Date(2015, time.February, 1, 0, 0, 0, 0, time.UTC)
	mar = time.Date(2015, time.March, 1, 0, 0, 0, 0, time.UTC)
)

func closed(code, color string, from, to time.Time) *widget {
	return &widget{Record: Record{EffectiveFrom: from, EffectiveTo: timePtr(to)}, Code: code, Color: color}
}

func active(code, color string, from time.Time) *widget {
	return &widget{Record: Record{EffectiveFrom: from}, Code: code, Color: color}
}

// clock is a manually advanced time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type harness struct {
	store *Store[*widget]
	repo  *MemoryRepository[*widget]
	clock *clock
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	repo := NewMemoryRepository[*widget]()
	vc := cache.NewVersionCache(cache.NewMemory(time.Minute), time.Minute)
	t.Cleanup(func() { _ = vc.Close() })

	clk := &clock{t: jan}
	opts = append([]Option{WithClock(clk.Now), WithDefaultActor("tester")}, opts...)
	return &harness{
		store: NewStore[*widget]("widget", repo, vc, opts...),
		repo:  repo,
		clock: clk,
	}
}

// seed writes versions straight into the repository, bypassing the store.
func (h *harness) seed(t *testing.T, versions ...*widget) {
	t.Helper()
	for _, v := range versions {
		if err := h.repo.Insert(context.Background(), v); err != nil {
			t.Fatalf("seed %s: %v", v.NaturalKey(), err)
		}
	}
}

func (h *harness) timeline(t *testing.T, code string) []*widget {
	t.Helper()
	versions, err := h.repo.VersionSet(context.Background(), Identity{code})
	if err != nil {
		t.Fatalf("VersionSet(%s): %v", code, err)
	}
	sort.Slice(versions, func(i, j int) bool { return before(versions[i].Audit(), versions[j].Audit()) })
	return versions
}

// assertWellFormed checks that intervals do not overlap and at most one
// version, the last one, is active.
func assertWellFormed(t *testing.T, versions []*widget) {
	t.Helper()
	for i, v := range versions {
		rec := v.Audit()
		if rec.EffectiveTo != nil && rec.EffectiveTo.Before(rec.EffectiveFrom) {
			t.Errorf("version %d is inverted: [%s, %s)", rec.ID, rec.EffectiveFrom, *rec.EffectiveTo)
		}
		if i == len(versions)-1 {
			continue
		}
		if rec.Active() {
			t.Errorf("version %d is active but not last", rec.ID)
			continue
		}
		if next := versions[i+1].Audit(); rec.EffectiveTo.After(next.EffectiveFrom) {
			t.Errorf("version %d [%s, %s) overlaps version %d starting %s",
				rec.ID, rec.EffectiveFrom, *rec.EffectiveTo, next.ID, next.EffectiveFrom)
		}
	}
}

func span(t *testing.T, v *widget, from time.Time, to *time.Time) {
	t.Helper()
	rec := v.Audit()
	if !rec.EffectiveFrom.Equal(from) {
		t.Errorf("version %d (%s) effective_from = %s, want %s", rec.ID, v.Color, rec.EffectiveFrom, from)
	}
	if !timesEqual(rec.EffectiveTo, to) {
		t.Errorf("version %d (%s) effective_to = %v, want %v", rec.ID, v.Color, rec.EffectiveTo, to)
	}
}
