// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/metrics"
)

// RepairReport describes what FixVersions did to one timeline.
type RepairReport struct {
	Family string `json:"family"`
	Key    string `json:"key"`

	// Versions is the size of the timeline.
	Versions int `json:"versions"`

	// ActiveFound is the number of active versions before repair.
	ActiveFound int `json:"active_found"`

	// SharedStart lists ids of versions sharing the candidate's EffectiveFrom
	// when there was more than one.
	SharedStart []int64 `json:"shared_start,omitempty"`

	// Collapsed counts inverted intervals set to zero width.
	Collapsed int `json:"collapsed"`

	// Closed counts surplus active versions closed at their successor.
	Closed int `json:"closed"`

	// Nudged counts closed versions whose EffectiveFrom had to move.
	Nudged int `json:"nudged"`

	// Failures lists versions that could not be repaired.
	Failures []*RepairFailedError `json:"-"`
}

// Repaired reports whether anything was written.
func (r *RepairReport) Repaired() bool {
	return r.Collapsed+r.Closed > 0
}

// Err joins the failures, or returns nil.
func (r *RepairReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// FixVersions repairs the timeline of v's identity:
//
//   - every inverted interval (EffectiveFrom after EffectiveTo) is collapsed
//     to zero width at EffectiveFrom;
//   - when more than one version is active, every active version except the
//     newest is closed at the start of its successor. When that write
//     collides, EffectiveFrom is moved forward by 1, then 2, then 3 ...
//     seconds and the close retried, up to the configured attempt limit.
//
// Versions that cannot be closed within the limit are listed in the report
// and the returned error matches ErrRepairFailed. Each row is written on its
// own; repair is not atomic across versions.
func (s *Store[T]) FixVersions(ctx context.Context, v T) (*RepairReport, error) {
	return s.fixIdentity(ctx, v.NaturalKey(), v.Audit().EffectiveFrom)
}

// RepairAll runs FixVersions for every identity of the family. wait, when
// not nil, is called before each identity and may block for rate limiting;
// its error stops the sweep. Storage errors stop the sweep; repair failures
// are collected and returned joined after all identities were visited.
func (s *Store[T]) RepairAll(ctx context.Context, wait func(context.Context) error) ([]*RepairReport, error) {
	ids, err := s.repo.Identities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s identities: %w", s.family, err)
	}

	var (
		reports  []*RepairReport
		failures []error
	)
	for _, id := range ids {
		if wait != nil {
			if err := wait(ctx); err != nil {
				return reports, err
			}
		}
		report, err := s.fixIdentity(ctx, NaturalKey{Identity: id}, time.Time{})
		if err != nil && !errors.Is(err, ErrRepairFailed) {
			return reports, err
		}
		if err != nil {
			failures = append(failures, err)
		}
		if report.Repaired() || len(report.Failures) > 0 {
			reports = append(reports, report)
		}
	}
	return reports, errors.Join(failures...)
}

func (s *Store[T]) fixIdentity(ctx context.Context, key NaturalKey, from time.Time) (report *RepairReport, err error) {
	start := time.Now()
	defer func() { s.observe("repair", start, err) }()

	key = NaturalKey{Identity: key.Identity}
	report = &RepairReport{Family: s.family, Key: key.Identity.String()}
	s.invalidate(key)
	defer s.invalidate(key)

	set, err := s.index.Lookup(ctx, key)
	if err != nil {
		return report, err
	}
	report.Versions = set.Len()

	active := set.Current()
	report.ActiveFound = len(active)
	multipleActive := len(active) > 1
	log := logging.Ctx(ctx).With().Str("family", s.family).Str("key", report.Key).Logger()
	if multipleActive {
		log.Warn().Int("active", len(active)).Msg("multiple active versions detected")
	}

	if !from.IsZero() {
		if shared := set.StartingAt(from); len(shared) > 1 {
			for _, v := range shared {
				report.SharedStart = append(report.SharedStart, v.Audit().ID)
			}
			log.Warn().Ints64("ids", report.SharedStart).Msg("versions share the same effective_from")
		}
	}

	var keep T
	if multipleActive {
		keep = newestOf(active)
	}

	for _, version := range set.All() {
		rec := version.Audit()
		if rec.EffectiveTo != nil && rec.EffectiveFrom.After(*rec.EffectiveTo) {
			switch err := s.collapse(ctx, version); {
			case err == nil:
				report.Collapsed++
			case errors.Is(err, ErrUniqueViolation):
				report.Failures = append(report.Failures, &RepairFailedError{Key: report.Key, VersionID: rec.ID, Attempts: 1, Err: err})
			default:
				return report, err
			}
		}
		if multipleActive && rec.Active() && rec.ID != keep.Audit().ID {
			if err := s.closeActive(ctx, set, version, report); err != nil {
				return report, err
			}
		}
	}

	metrics.RecordRepair(s.family, "collapsed", report.Collapsed)
	metrics.RecordRepair(s.family, "closed", report.Closed)
	metrics.RecordRepair(s.family, "nudged", report.Nudged)
	metrics.RecordRepair(s.family, "failed", len(report.Failures))

	if report.Repaired() {
		log.Info().
			Int("collapsed", report.Collapsed).
			Int("closed", report.Closed).
			Int("nudged", report.Nudged).
			Msg("timeline repaired")
	}
	if err := report.Err(); err != nil {
		log.Error().Err(err).Msg("timeline repair incomplete")
		return report, err
	}
	return report, nil
}

// collapse sets an inverted interval to zero width at EffectiveFrom.
func (s *Store[T]) collapse(ctx context.Context, version T) error {
	rec := version.Audit()
	prev := rec.EffectiveTo
	rec.EffectiveTo = timePtr(rec.EffectiveFrom)
	rec.DateModified = s.now()
	if err := s.repo.Update(ctx, version); err != nil {
		rec.EffectiveTo = prev
		return fmt.Errorf("failed to collapse version %d: %w", rec.ID, err)
	}
	return nil
}

// closeActive closes a surplus active version at the start of its successor,
// moving its EffectiveFrom forward by a growing number of seconds whenever
// the write collides. Constraint failures count as attempts; other storage
// errors abort the repair.
func (s *Store[T]) closeActive(ctx context.Context, set *VersionSet[T], version T, report *RepairReport) error {
	rec := version.Audit()
	origFrom := rec.EffectiveFrom
	var lastErr error

	for attempt, hop := 0, 1; attempt < s.opts.maxRepairAttempts; attempt, hop = attempt+1, hop+1 {
		if err := ctx.Err(); err != nil {
			rec.EffectiveFrom = origFrom
			return err
		}

		next, err := set.NextAfter(rec.EffectiveFrom)
		if err == nil {
			rec.EffectiveTo = timePtr(next.Audit().EffectiveFrom)
			rec.DateModified = s.now()
			err = s.repo.Update(ctx, version)
			if err == nil {
				report.Closed++
				if !rec.EffectiveFrom.Equal(origFrom) {
					report.Nudged++
				}
				return nil
			}
			rec.EffectiveTo = nil
			if !errors.Is(err, ErrUniqueViolation) {
				rec.EffectiveFrom = origFrom
				return fmt.Errorf("failed to close version %d: %w", rec.ID, err)
			}
		}
		lastErr = err
		rec.EffectiveFrom = rec.EffectiveFrom.Add(time.Duration(hop) * time.Second)
	}

	rec.EffectiveFrom = origFrom
	report.Failures = append(report.Failures, &RepairFailedError{
		Key:       report.Key,
		VersionID: rec.ID,
		Attempts:  s.opts.maxRepairAttempts,
		Err:       lastErr,
	})
	return nil
}

// newestOf returns the version starting last, ties going to the higher id.
func newestOf[T Entity](versions []T) T {
	best := versions[0]
	for _, v := range versions[1:] {
		if before(best.Audit(), v.Audit()) {
			best = v
		}
	}
	return best
}
