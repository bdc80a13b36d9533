// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// VersionSet is the timeline of one identity, ordered by EffectiveFrom and
// then by ID.
type VersionSet[T Entity] struct {
	key      NaturalKey
	versions []T
}

// NewVersionSet sorts versions into a set. key is used in error messages.
func NewVersionSet[T Entity](key NaturalKey, versions []T) *VersionSet[T] {
	sorted := make([]T, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return before(sorted[i].Audit(), sorted[j].Audit())
	})
	return &VersionSet[T]{key: NaturalKey{Identity: key.Identity}, versions: sorted}
}

func before(a, b *Record) bool {
	if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
		return a.EffectiveFrom.Before(b.EffectiveFrom)
	}
	return a.ID < b.ID
}

// Len returns the number of versions.
func (s *VersionSet[T]) Len() int {
	return len(s.versions)
}

// All returns every version, oldest first.
func (s *VersionSet[T]) All() []T {
	out := make([]T, len(s.versions))
	copy(out, s.versions)
	return out
}

// Current returns the active versions. More than one means corruption.
func (s *VersionSet[T]) Current() []T {
	var out []T
	for _, v := range s.versions {
		if v.Audit().Active() {
			out = append(out, v)
		}
	}
	return out
}

// Oldest returns the version with the smallest EffectiveFrom.
func (s *VersionSet[T]) Oldest() (T, error) {
	var zero T
	if len(s.versions) == 0 {
		return zero, notFound(s.key, "no versions")
	}
	return s.newestOrOldest(false), nil
}

// Newest returns the version with the largest EffectiveFrom.
func (s *VersionSet[T]) Newest() (T, error) {
	var zero T
	if len(s.versions) == 0 {
		return zero, notFound(s.key, "no versions")
	}
	return s.newestOrOldest(true), nil
}

// newestOrOldest scans instead of indexing the sorted slice because repair
// moves EffectiveFrom of members in place.
func (s *VersionSet[T]) newestOrOldest(newest bool) T {
	best := s.versions[0]
	for _, v := range s.versions[1:] {
		if before(best.Audit(), v.Audit()) == newest {
			best = v
		}
	}
	return best
}

// At returns the version in force at t. The newest version wins when it is
// active and started at or before t; otherwise the closed version whose
// interval contains t is returned.
func (s *VersionSet[T]) At(t time.Time) (T, error) {
	var zero T
	if len(s.versions) == 0 {
		return zero, notFound(s.key, fmt.Sprintf("no version at %s", t.UTC().Format(time.RFC3339Nano)))
	}

	newest := s.newestOrOldest(true)
	if rec := newest.Audit(); rec.Active() && !rec.EffectiveFrom.After(t) {
		return newest, nil
	}

	var found []T
	for _, v := range s.versions {
		if rec := v.Audit(); !rec.Active() && rec.Contains(t) {
			found = append(found, v)
		}
	}
	switch len(found) {
	case 0:
		return zero, notFound(s.key, fmt.Sprintf("no version at %s", t.UTC().Format(time.RFC3339Nano)))
	case 1:
		return found[0], nil
	default:
		return zero, auditError(s.key, "%d overlapping versions at %s, run FixVersions", len(found), t.UTC().Format(time.RFC3339Nano))
	}
}

// NextAfter returns the version with the smallest EffectiveFrom strictly
// after t.
func (s *VersionSet[T]) NextAfter(t time.Time) (T, error) {
	var (
		next  T
		found bool
	)
	for _, v := range s.versions {
		rec := v.Audit()
		if !rec.EffectiveFrom.After(t) {
			continue
		}
		if !found || before(rec, next.Audit()) {
			next, found = v, true
		}
	}
	if !found {
		return next, notFound(s.key, fmt.Sprintf("no version after %s", t.UTC().Format(time.RFC3339Nano)))
	}
	return next, nil
}

// Between returns the closed versions spanning the whole of [from, to]
// together with the active versions started at or before from.
func (s *VersionSet[T]) Between(from, to time.Time) []T {
	var out []T
	for _, v := range s.versions {
		rec := v.Audit()
		if rec.EffectiveFrom.After(from) {
			continue
		}
		if rec.Active() || rec.EffectiveTo.After(to) {
			out = append(out, v)
		}
	}
	return out
}

// StartingAt returns the versions whose EffectiveFrom equals t.
func (s *VersionSet[T]) StartingAt(t time.Time) []T {
	var out []T
	for _, v := range s.versions {
		if v.Audit().EffectiveFrom.Equal(t) {
			out = append(out, v)
		}
	}
	return out
}

// Index resolves an identity to its VersionSet straight from the repository.
// Lookups through Index are never cached; the Store layers the VersionCache
// on top for reads outside write paths.
type Index[T Entity] struct {
	repo Repository[T]
}

// NewIndex creates an Index over repo.
func NewIndex[T Entity](repo Repository[T]) *Index[T] {
	return &Index[T]{repo: repo}
}

// Lookup loads the timeline of key's identity.
func (ix *Index[T]) Lookup(ctx context.Context, key NaturalKey) (*VersionSet[T], error) {
	versions, err := ix.repo.VersionSet(ctx, key.Identity)
	if err != nil {
		return nil, fmt.Errorf("failed to load versions of %s: %w", key.Identity, err)
	}
	return NewVersionSet(key, versions), nil
}
