// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFixVersionsClosesSurplusActive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, active("w", "a", jan), active("w", "b", feb))

	report, err := h.store.FixVersions(ctx, &widget{Code: "w"})
	if err != nil {
		t.Fatalf("FixVersions() error = %v", err)
	}
	if report.ActiveFound != 2 || report.Closed != 1 || report.Nudged != 0 {
		t.Errorf("report = %+v", report)
	}
	if !report.Repaired() {
		t.Error("Repaired() = false")
	}

	versions := h.timeline(t, "w")
	span(t, versions[0], jan, &feb)
	span(t, versions[1], feb, nil)
	assertWellFormed(t, versions)

	cur, err := h.store.Current(ctx, &widget{Code: "w"})
	if err != nil || cur.Color != "b" {
		t.Errorf("Current() after repair = %v, %v", cur, err)
	}
}

func TestFixVersionsCollapsesInverted(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, closed("w", "inv", feb, jan), active("w", "b", mar))

	report, err := h.store.FixVersions(ctx, &widget{Code: "w"})
	if err != nil {
		t.Fatal(err)
	}
	if report.Collapsed != 1 || report.Closed != 0 {
		t.Errorf("report = %+v", report)
	}
	versions := h.timeline(t, "w")
	span(t, versions[0], feb, &feb)
	assertWellFormed(t, versions)
}

func TestFixVersionsHealthyTimeline(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seed(t, closed("w", "a", jan, feb), active("w", "b", feb))

	report, err := h.store.FixVersions(context.Background(), &widget{Code: "w"})
	if err != nil {
		t.Fatal(err)
	}
	if report.Repaired() || report.Versions != 2 || report.ActiveFound != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestFixVersionsNudgesOnCollision(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	sec := func(n int) time.Time { return jan.Add(time.Duration(n) * time.Second) }

	h.seed(t,
		active("w", "a", sec(0)),
		active("w", "b", sec(10)),
		closed("w", "s1", sec(1), sec(2)),
		closed("w", "y", sec(-5), sec(1)),
	)

	report, err := h.store.FixVersions(ctx, &widget{Code: "w"})
	if err != nil {
		t.Fatalf("FixVersions() error = %v", err)
	}
	if report.Closed != 1 || report.Nudged != 1 {
		t.Errorf("report = %+v", report)
	}

	var a *widget
	for _, v := range h.timeline(t, "w") {
		if v.Color == "a" {
			a = v
		}
	}
	if a == nil {
		t.Fatal("version a disappeared")
	}
	end := sec(10)
	span(t, a, sec(3), &end)
}

func TestFixVersionsBoundedFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithMaxRepairAttempts(3))
	ctx := context.Background()
	dec := jan.AddDate(0, -1, 0)
	h.seed(t, active("w", "a", jan), active("w", "b", feb), closed("w", "y", dec, feb))

	report, err := h.store.FixVersions(ctx, &widget{Code: "w"})
	if !errors.Is(err, ErrRepairFailed) {
		t.Fatalf("FixVersions() error = %v, want ErrRepairFailed", err)
	}
	if len(report.Failures) != 1 || report.Closed != 0 {
		t.Fatalf("report = %+v", report)
	}
	failure := report.Failures[0]
	if failure.Attempts != 3 || !errors.Is(failure, ErrUniqueViolation) {
		t.Errorf("failure = %v", failure)
	}

	for _, v := range h.timeline(t, "w") {
		if v.Color == "a" {
			span(t, v, jan, nil)
		}
	}
}

func TestRepairAll(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seed(t,
		active("a", "1", jan), active("a", "2", feb),
		active("b", "1", jan),
		closed("c", "1", mar, feb),
	)

	calls := 0
	wait := func(context.Context) error {
		calls++
		return nil
	}
	reports, err := h.store.RepairAll(context.Background(), wait)
	if err != nil {
		t.Fatalf("RepairAll() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("wait called %d times, want 3", calls)
	}
	if len(reports) != 2 {
		t.Fatalf("expected reports for a and c, got %d", len(reports))
	}
	if reports[0].Key != "a" || reports[1].Key != "c" {
		t.Errorf("report keys = %s, %s", reports[0].Key, reports[1].Key)
	}
	for _, id := range []string{"a", "b", "c"} {
		assertWellFormed(t, h.timeline(t, id))
	}
}

func TestRepairAllStopsWhenWaitFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seed(t, active("a", "1", jan), active("a", "2", feb))

	stop := errors.New("stop")
	reports, err := h.store.RepairAll(context.Background(), func(context.Context) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("RepairAll() error = %v, want stop", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected no reports, got %d", len(reports))
	}
	if cur := h.repo.Len(); cur != 2 {
		t.Errorf("store has %d rows", cur)
	}
}

func TestStoreWithoutCache(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository[*widget]()
	s := NewStore[*widget]("widget", repo, nil, WithClock(func() time.Time { return jan }))
	ctx := context.Background()

	if err := s.SaveVersion(ctx, &widget{Code: "w", Color: "red"}, SaveOptions{}); err != nil {
		t.Fatal(err)
	}
	cur, err := s.Current(ctx, &widget{Code: "w"})
	if err != nil || cur.Color != "red" {
		t.Errorf("Current() = %v, %v", cur, err)
	}
}
