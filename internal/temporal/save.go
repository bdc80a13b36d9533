// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/spatial/internal/logging"
)

// SaveOptions controls SaveVersion.
type SaveOptions struct {
	// Actor is stamped as creator and modifier; empty uses the store default.
	Actor string

	// EffectiveTo closes the new version at this time. Together with a set
	// EffectiveFrom on the candidate it selects the bulk path.
	EffectiveTo *time.Time

	// SkipCompare saves even when the candidate equals the version it
	// replaces.
	SkipCompare bool
}

// SaveVersion persists v as a new version of its timeline.
//
// The candidate's ID is cleared first. Then one of three paths runs:
//
//   - bulk: EffectiveFrom and opts.EffectiveTo are both set; the row is
//     written as given.
//   - insert at point: only EffectiveFrom is set; the version in force at
//     that instant is closed there and v is spliced in after it, bounded by
//     the start of the following version. Without a version in force, v
//     becomes the earliest version, bounded by the next one.
//   - append: EffectiveFrom is unset; the active version is closed now and v
//     becomes the new active version starting now.
//
// A candidate identical to the version it replaces, and any write rejected
// by a unique constraint, yields an error matching ErrAuditCollision. The
// close and insert of one call happen in a single transaction.
func (s *Store[T]) SaveVersion(ctx context.Context, v T, opts SaveOptions) (err error) {
	start := time.Now()
	defer func() { s.observe("save", start, err) }()

	rec := v.Audit()
	rec.ID = 0
	rec.EffectiveTo = copyTime(opts.EffectiveTo)
	actor := s.actor(opts.Actor)
	if opts.Actor != "" || rec.CreatedBy == "" {
		rec.CreatedBy = actor
	}
	rec.ModifiedBy = actor

	key := v.NaturalKey()
	s.invalidate(key)
	defer s.invalidate(key)

	switch {
	case !rec.EffectiveFrom.IsZero() && rec.EffectiveTo != nil:
		err = s.insert(ctx, v)
	case !rec.EffectiveFrom.IsZero():
		err = s.repo.Atomic(ctx, func(ctx context.Context) error {
			return s.insertAt(ctx, v, actor, opts.SkipCompare)
		})
	default:
		err = s.repo.Atomic(ctx, func(ctx context.Context) error {
			return s.appendVersion(ctx, v, actor, opts.SkipCompare)
		})
	}
	if err != nil {
		rec.ID = 0
		return err
	}

	logging.Ctx(ctx).Info().
		Str("family", s.family).
		Str("key", v.NaturalKey().String()).
		Int64("id", rec.ID).
		Time("effective_from", rec.EffectiveFrom).
		Msg("version saved")
	return nil
}

// insertAt handles a candidate with a chosen EffectiveFrom.
func (s *Store[T]) insertAt(ctx context.Context, v T, actor string, skipCompare bool) error {
	rec := v.Audit()
	set, err := s.index.Lookup(ctx, v.NaturalKey())
	if err != nil {
		return err
	}

	previous, err := set.At(rec.EffectiveFrom)
	if errors.Is(err, ErrNotFound) {
		// Earliest version so far: it lasts until the next one starts.
		if next, nextErr := set.NextAfter(rec.EffectiveFrom); nextErr == nil {
			rec.EffectiveTo = timePtr(next.Audit().EffectiveFrom)
		}
		return s.insert(ctx, v)
	}
	if err != nil {
		return err
	}

	if !skipCompare && Compare(v, previous) {
		return collision(v.NaturalKey(), nil, "identical to the version in force at %s", formatTime(rec.EffectiveFrom))
	}
	return s.insertAfter(ctx, set, v, previous, actor)
}

// insertAfter splices v into the timeline right after previous.
func (s *Store[T]) insertAfter(ctx context.Context, set *VersionSet[T], v, previous T, actor string) error {
	rec, prev := v.Audit(), previous.Audit()
	rec.EffectiveTo = nil

	if prev.EffectiveTo != nil {
		if prev.EffectiveTo.Before(rec.EffectiveFrom) {
			// Gap after previous: v fills it without touching previous.
			if v.NaturalKey().Equal(previous.NaturalKey()) {
				return auditError(v.NaturalKey(), "duplicate natural key")
			}
			return s.insert(ctx, v)
		}
		if next, err := set.NextAfter(rec.EffectiveFrom); err == nil && next.Audit().ID != prev.ID {
			rec.EffectiveTo = timePtr(next.Audit().EffectiveFrom)
		}
	}

	if err := s.end(ctx, previous, rec.EffectiveFrom, actor); err != nil {
		return err
	}
	if v.NaturalKey().Equal(previous.NaturalKey()) {
		return auditError(v.NaturalKey(), "duplicate natural key")
	}
	return s.insert(ctx, v)
}

// appendVersion closes the active version now and makes v active.
func (s *Store[T]) appendVersion(ctx context.Context, v T, actor string, skipCompare bool) error {
	rec := v.Audit()
	now := s.now()

	set, err := s.index.Lookup(ctx, v.NaturalKey())
	if err != nil {
		return err
	}

	active := set.Current()
	if len(active) > 1 {
		return auditError(NaturalKey{Identity: v.NaturalKey().Identity}, "%d active versions detected, run FixVersions", len(active))
	}
	if len(active) == 1 && rec.EffectiveTo == nil {
		current := active[0]
		if !skipCompare && Compare(v, current) {
			return collision(v.NaturalKey(), nil, "identical to the active version")
		}
		if err := s.end(ctx, current, now, actor); err != nil {
			return err
		}
		if v.NaturalKey().Equal(current.NaturalKey()) {
			return auditError(v.NaturalKey(), "duplicate natural key")
		}
	}

	rec.EffectiveFrom = now
	return s.insert(ctx, v)
}

// EndVersion closes v at effectiveTo, or now when effectiveTo is nil. v must
// be a persisted version.
func (s *Store[T]) EndVersion(ctx context.Context, v T, effectiveTo *time.Time, actor string) (err error) {
	start := time.Now()
	defer func() { s.observe("end", start, err) }()

	rec := v.Audit()
	if rec.ID == 0 {
		return auditError(v.NaturalKey(), "cannot end a version that was never saved")
	}
	to := s.now()
	if effectiveTo != nil {
		to = effectiveTo.UTC()
	}

	key := v.NaturalKey()
	s.invalidate(key)
	defer s.invalidate(key)

	if err := s.end(ctx, v, to, s.actor(actor)); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("family", s.family).Str("key", v.NaturalKey().String()).Int64("id", rec.ID).Msg("version ended")
	return nil
}

// end closes version at to and persists it. On failure the in-memory
// version keeps its previous bound.
func (s *Store[T]) end(ctx context.Context, version T, to time.Time, actor string) error {
	rec := version.Audit()
	prevTo, prevBy, prevMod := rec.EffectiveTo, rec.ModifiedBy, rec.DateModified

	rec.EffectiveTo = timePtr(to)
	rec.ModifiedBy = actor
	rec.DateModified = s.now()
	if err := s.repo.Update(ctx, version); err != nil {
		rec.EffectiveTo, rec.ModifiedBy, rec.DateModified = prevTo, prevBy, prevMod
		return translate(version.NaturalKey(), err)
	}
	return nil
}

// insert stamps the creation dates and persists v as a new row.
func (s *Store[T]) insert(ctx context.Context, v T) error {
	rec := v.Audit()
	now := s.now()
	if rec.DateCreated.IsZero() {
		rec.DateCreated = now
	}
	rec.DateModified = now
	rec.EffectiveFrom = rec.EffectiveFrom.UTC()
	if rec.EffectiveTo != nil {
		rec.EffectiveTo = timePtr(rec.EffectiveTo.UTC())
	}
	return translate(v.NaturalKey(), s.repo.Insert(ctx, v))
}

func (s *Store[T]) actor(actor string) string {
	if actor != "" {
		return actor
	}
	return s.opts.defaultActor
}
