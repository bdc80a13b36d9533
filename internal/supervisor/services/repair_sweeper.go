// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/metrics"
	"github.com/tomtom215/spatial/internal/temporal"
)

// Repairer runs FixVersions over every timeline it owns. wait is called
// before each identity. *spatial.Stores implements it.
type Repairer interface {
	RepairAll(ctx context.Context, wait func(context.Context) error) ([]*temporal.RepairReport, error)
}

// RepairSweeperService periodically repairs every timeline of every family.
// Identities are visited at most perSecond times a second so a sweep never
// monopolizes the database.
type RepairSweeperService struct {
	repairer  Repairer
	interval  time.Duration
	perSecond rate.Limit
	name      string
}

// NewRepairSweeperService creates a sweeper running every interval. A
// non-positive interval means one hour, a non-positive perSecond no limit.
func NewRepairSweeperService(repairer Repairer, interval time.Duration, perSecond float64) *RepairSweeperService {
	if interval <= 0 {
		interval = time.Hour
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RepairSweeperService{
		repairer:  repairer,
		interval:  interval,
		perSecond: limit,
		name:      "repair-sweeper",
	}
}

// Serve implements suture.Service. The first sweep runs right away, the
// next ones every interval. A failed sweep is logged and retried at the
// next tick; only cancellation stops the service.
func (s *RepairSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); ctx.Err() != nil {
			return ctx.Err()
		} else if err != nil && !errors.Is(err, temporal.ErrRepairFailed) {
			logging.Error().Err(err).Str("service", s.name).Msg("Repair sweep failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sweep runs one rate limited repair pass and returns the reports of the
// timelines that needed work.
func (s *RepairSweeperService) Sweep(ctx context.Context) ([]*temporal.RepairReport, error) {
	limiter := rate.NewLimiter(s.perSecond, 1)
	start := time.Now()

	reports, err := s.repairer.RepairAll(ctx, limiter.Wait)
	duration := time.Since(start)
	metrics.RecordRepairSweep(duration, err)

	repaired, failed := 0, 0
	for _, r := range reports {
		if r.Repaired() {
			repaired++
		}
		failed += len(r.Failures)
	}

	event := logging.Info()
	if err != nil {
		event = logging.Warn().Err(err)
	}
	event.
		Str("service", s.name).
		Dur("duration", duration).
		Int("timelines_repaired", repaired).
		Int("versions_unfixed", failed).
		Msg("Repair sweep finished")

	return reports, err
}

// String implements fmt.Stringer; suture names the service with it.
func (s *RepairSweeperService) String() string {
	return s.name
}
