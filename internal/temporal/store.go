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

	"github.com/goccy/go-json"

	"github.com/tomtom215/spatial/internal/cache"
	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/metrics"
)

// DefaultMaxRepairAttempts bounds the close-and-nudge loop of FixVersions.
const DefaultMaxRepairAttempts = 10

// Option configures a Store.
type Option func(*options)

type options struct {
	now               func() time.Time
	maxRepairAttempts int
	defaultActor      string
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMaxRepairAttempts sets how often FixVersions retries closing one
// active version before reporting it.
func WithMaxRepairAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRepairAttempts = n
		}
	}
}

// WithDefaultActor sets the actor stamped on writes that name none.
func WithDefaultActor(actor string) Option {
	return func(o *options) { o.defaultActor = actor }
}

// Store owns the timelines of one entity family.
type Store[T Entity] struct {
	family string
	repo   Repository[T]
	index  *Index[T]
	cache  *cache.VersionCache
	opts   options
}

// NewStore creates a Store for family over repo. vc may be nil to disable
// caching.
func NewStore[T Entity](family string, repo Repository[T], vc *cache.VersionCache, opts ...Option) *Store[T] {
	o := options{
		now:               func() time.Time { return time.Now().UTC() },
		maxRepairAttempts: DefaultMaxRepairAttempts,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		family: family,
		repo:   repo,
		index:  NewIndex(repo),
		cache:  vc,
		opts:   o,
	}
}

// Family returns the family name used in cache keys, logs and metrics.
func (s *Store[T]) Family() string {
	return s.family
}

// now is truncated to microseconds, the precision of the storage timestamps,
// so a value read back compares equal to the one written.
func (s *Store[T]) now() time.Time {
	return s.opts.now().UTC().Truncate(time.Microsecond)
}

func (s *Store[T]) cacheKey(key NaturalKey, q Query) cache.Key {
	return cache.Key{
		Family:    s.family,
		Identity:  key.Hash(),
		Operation: string(q.Op),
		Params:    q.params(),
	}
}

func (s *Store[T]) invalidate(key NaturalKey) {
	s.cache.Invalidate(cache.Key{Family: s.family, Identity: key.Hash()})
}

func (s *Store[T]) observe(op string, start time.Time, err error) {
	metrics.RecordTemporalOp(s.family, op, outcome(err), time.Since(start))
}

// GetVersion runs q against the timeline of v's identity. Single-version
// queries return a one-element slice. Results are served from the version
// cache when present; errors are never cached.
func (s *Store[T]) GetVersion(ctx context.Context, v T, q Query) (result []T, err error) {
	start := time.Now()
	defer func() { s.observe("get", start, err) }()

	key := v.NaturalKey()
	ck := s.cacheKey(key, q)
	epoch := s.cache.Epoch()

	if data, ok := s.cache.Get(ck); ok {
		var cached []T
		if err := json.Unmarshal(data, &cached); err == nil {
			logging.Debug().Str("family", s.family).Str("key", key.Identity.String()).Str("query", q.String()).Msg("version cache hit")
			return cached, nil
		}
		logging.Warn().Str("family", s.family).Str("query", q.String()).Msg("ignoring undecodable cached versions")
	}

	set, err := s.index.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	result, err = resolve(set, key, q)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		s.cache.Put(ck, data, epoch)
	}
	return result, nil
}

// resolve evaluates q against a loaded set.
func resolve[T Entity](set *VersionSet[T], key NaturalKey, q Query) ([]T, error) {
	one := func(v T, err error) ([]T, error) {
		if err != nil {
			return nil, err
		}
		return []T{v}, nil
	}

	switch q.Op {
	case OpAll:
		return set.All(), nil
	case OpOldest:
		return one(set.Oldest())
	case OpNewest:
		return one(set.Newest())
	case OpAt:
		return one(set.At(q.From))
	case OpNext:
		return one(set.NextAfter(q.From))
	case OpBetween:
		return set.Between(q.From, q.To), nil
	case OpCurrent:
		return one(currentOf(set, key))
	default:
		return nil, &AuditError{Key: key.String(), Reason: fmt.Sprintf("bad input, query %q", q.Op)}
	}
}

func currentOf[T Entity](set *VersionSet[T], key NaturalKey) (T, error) {
	var zero T
	active := set.Current()
	switch len(active) {
	case 0:
		return zero, notFound(key, "no active version")
	case 1:
		return active[0], nil
	default:
		return zero, auditError(NaturalKey{Identity: key.Identity}, "%d active versions detected, run FixVersions", len(active))
	}
}

func (s *Store[T]) single(ctx context.Context, v T, q Query) (T, error) {
	var zero T
	versions, err := s.GetVersion(ctx, v, q)
	if err != nil {
		return zero, err
	}
	if len(versions) != 1 {
		return zero, fmt.Errorf("%s returned %d versions: %w", q, len(versions), ErrNotFound)
	}
	return versions[0], nil
}

// Current returns the active version of v's identity.
func (s *Store[T]) Current(ctx context.Context, v T) (T, error) {
	return s.single(ctx, v, Current())
}

// At returns the version in force at t.
func (s *Store[T]) At(ctx context.Context, v T, t time.Time) (T, error) {
	return s.single(ctx, v, At(t))
}

// Next returns the first version starting after t.
func (s *Store[T]) Next(ctx context.Context, v T, t time.Time) (T, error) {
	return s.single(ctx, v, Next(t))
}

// Oldest returns the earliest version.
func (s *Store[T]) Oldest(ctx context.Context, v T) (T, error) {
	return s.single(ctx, v, Oldest())
}

// Newest returns the latest-starting version.
func (s *Store[T]) Newest(ctx context.Context, v T) (T, error) {
	return s.single(ctx, v, Newest())
}

// All returns the whole timeline, oldest first.
func (s *Store[T]) All(ctx context.Context, v T) ([]T, error) {
	return s.GetVersion(ctx, v, All())
}

// Between returns the versions spanning [from, to] and the active version
// started by from.
func (s *Store[T]) Between(ctx context.Context, v T, from, to time.Time) ([]T, error) {
	return s.GetVersion(ctx, v, Between(from, to))
}

// Compare reports whether v and other carry identical business data.
func (s *Store[T]) Compare(v, other T) bool {
	return Compare(v, other)
}

// GetByNaturalKey loads exactly the version named by key, bypassing the cache.
func (s *Store[T]) GetByNaturalKey(ctx context.Context, key NaturalKey) (T, error) {
	return s.repo.GetByNaturalKey(ctx, key)
}

// ListCurrent returns the active version of every identity of the family.
func (s *Store[T]) ListCurrent(ctx context.Context) ([]T, error) {
	versions, err := s.repo.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active %s versions: %w", s.family, err)
	}
	return versions, nil
}

// Identities lists every identity of the family.
func (s *Store[T]) Identities(ctx context.Context) ([]Identity, error) {
	return s.repo.Identities(ctx)
}

// translate maps repository constraint errors onto collisions.
func translate(key NaturalKey, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUniqueViolation) {
		return collision(key, err, "unique constraint rejected the write")
	}
	return err
}
