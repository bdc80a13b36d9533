// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package spatial

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/spatial/internal/cache"
	"github.com/tomtom215/spatial/internal/temporal"
)

var (
	jan = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb = time.Date(2015, time.February, 1, 0, 0, 0, 0, time.UTC)
)

func newMemoryStores(t *testing.T) *Stores {
	t.Helper()
	vc := cache.NewVersionCache(cache.NewMemory(time.Minute), time.Minute)
	t.Cleanup(func() { _ = vc.Close() })
	return NewMemoryStores(vc, temporal.WithDefaultActor("tester"))
}

func TestStoresMapTimeline(t *testing.T) {
	t.Parallel()

	s := newMemoryStores(t)
	ctx := context.Background()

	first := NewMap("m1", "First")
	first.EffectiveFrom = jan
	if err := s.Maps.SaveVersion(ctx, first, temporal.SaveOptions{Actor: "alice"}); err != nil {
		t.Fatal(err)
	}

	second := NewMap("m1", "Second")
	second.EffectiveFrom = feb
	if err := s.Maps.SaveVersion(ctx, second, temporal.SaveOptions{}); err != nil {
		t.Fatal(err)
	}

	same := NewMap("m1", "Second")
	if err := s.Maps.SaveVersion(ctx, same, temporal.SaveOptions{}); !errors.Is(err, temporal.ErrAuditCollision) {
		t.Fatalf("identical save error = %v, want collision", err)
	}

	at, err := s.Maps.At(ctx, NewMap("m1", ""), jan.AddDate(0, 0, 10))
	if err != nil || at.Name != "First" {
		t.Errorf("At() = %v, %v", at, err)
	}
	cur, err := s.Maps.Current(ctx, NewMap("m1", ""))
	if err != nil || cur.Name != "Second" || cur.CreatedBy != "tester" {
		t.Errorf("Current() = %+v, %v", cur, err)
	}
}

func TestStoresLayerRasterRelation(t *testing.T) {
	t.Parallel()

	s := newMemoryStores(t)
	ctx := context.Background()

	l := rasterLayer()
	if err := s.Layers.SaveVersion(ctx, l, temporal.SaveOptions{}); err != nil {
		t.Fatal(err)
	}
	cur, err := s.Layers.Current(ctx, NewLayer("fire_risk_zones", ""))
	if err != nil {
		t.Fatal(err)
	}
	if cur.Raster == nil || cur.Raster.URL != l.Raster.URL {
		t.Errorf("raster attributes lost: %+v", cur.Raster)
	}
}

func TestStoresRepairAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	maps := temporal.NewMemoryRepository[*Map]()
	layers := temporal.NewMemoryRepository[*Layer]()
	s := &Stores{
		Maps:   temporal.NewStore[*Map](FamilyMap, maps, nil),
		Layers: temporal.NewStore[*Layer](FamilyLayer, layers, nil),
	}

	// Two active versions per family, as left behind by a lost race.
	for _, from := range []time.Time{jan, feb} {
		m := NewMap("m1", from.Month().String())
		m.EffectiveFrom = from
		if err := maps.Insert(ctx, m); err != nil {
			t.Fatal(err)
		}
		l := NewLayer("l1", from.Month().String())
		l.EffectiveFrom = from
		if err := layers.Insert(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.Maps.Current(ctx, NewMap("m1", "")); !errors.Is(err, temporal.ErrAudit) {
		t.Fatalf("expected corrupt map timeline, got %v", err)
	}

	calls := 0
	reports, err := s.RepairAll(ctx, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("RepairAll() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("wait called %d times, want 2", calls)
	}
	if len(reports) != 2 {
		t.Fatalf("expected one report per family, got %d", len(reports))
	}
	if reports[0].Family != FamilyMap || reports[1].Family != FamilyLayer {
		t.Errorf("report families = %s, %s", reports[0].Family, reports[1].Family)
	}

	cur, err := s.Maps.Current(ctx, NewMap("m1", ""))
	if err != nil || cur.Name != "February" {
		t.Errorf("Current() after repair = %v, %v", cur, err)
	}
	old, err := s.Layers.At(ctx, NewLayer("l1", ""), jan)
	if err != nil || old.EffectiveTo == nil || !old.EffectiveTo.Equal(feb) {
		t.Errorf("old layer version not closed at its successor: %v, %v", old, err)
	}
}
