// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

// MemoryRepository is an in-process Repository enforcing the same unique
// constraints as the SQL tables. Rows are stored as JSON snapshots so callers
// never share memory with the repository. Transactions are serialised: Atomic
// holds a lock for the duration of fn and restores the snapshot if fn fails.
// Writes outside a transaction take the same lock, so a rollback never
// discards them.
type MemoryRepository[T Entity] struct {
	mu     sync.RWMutex
	rows   map[int64][]byte
	nextID int64

	txMu sync.Mutex
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository[T Entity]() *MemoryRepository[T] {
	return &MemoryRepository[T]{rows: make(map[int64][]byte)}
}

type memoryTxKey struct{}

func (r *MemoryRepository[T]) decode(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode stored version: %w", err)
	}
	return v, nil
}

func (r *MemoryRepository[T]) scan(match func(T) bool) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []T
	for _, id := range ids {
		v, err := r.decode(r.rows[id])
		if err != nil {
			return nil, err
		}
		if match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// VersionSet returns every version of id.
func (r *MemoryRepository[T]) VersionSet(_ context.Context, id Identity) ([]T, error) {
	return r.scan(func(v T) bool { return v.NaturalKey().Identity.Equal(id) })
}

// GetByNaturalKey returns the version whose key equals key.
func (r *MemoryRepository[T]) GetByNaturalKey(_ context.Context, key NaturalKey) (T, error) {
	var zero T
	found, err := r.scan(func(v T) bool { return v.NaturalKey().Equal(key) })
	if err != nil {
		return zero, err
	}
	if len(found) == 0 {
		return zero, notFound(key, "no version with this natural key")
	}
	return found[0], nil
}

// inTx reports whether ctx carries a transaction of this repository.
func (r *MemoryRepository[T]) inTx(ctx context.Context) bool {
	tx, _ := ctx.Value(memoryTxKey{}).(*MemoryRepository[T])
	return tx == r
}

// lockWrite serialises a write with running transactions and takes mu.
// The returned func releases both.
func (r *MemoryRepository[T]) lockWrite(ctx context.Context) func() {
	if r.inTx(ctx) {
		r.mu.Lock()
		return r.mu.Unlock
	}
	r.txMu.Lock()
	r.mu.Lock()
	return func() {
		r.mu.Unlock()
		r.txMu.Unlock()
	}
}

// Insert assigns the next id and stores v.
func (r *MemoryRepository[T]) Insert(ctx context.Context, v T) error {
	defer r.lockWrite(ctx)()

	if err := r.checkUnique(v, 0); err != nil {
		return err
	}
	r.nextID++
	v.Audit().ID = r.nextID
	data, err := json.Marshal(v)
	if err != nil {
		v.Audit().ID = 0
		r.nextID--
		return fmt.Errorf("failed to encode version: %w", err)
	}
	r.rows[r.nextID] = data
	return nil
}

// Update replaces the stored row with v's id.
func (r *MemoryRepository[T]) Update(ctx context.Context, v T) error {
	defer r.lockWrite(ctx)()

	id := v.Audit().ID
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err := r.checkUnique(v, id); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode version: %w", err)
	}
	r.rows[id] = data
	return nil
}

// checkUnique enforces UNIQUE(effective_from, identity) and
// UNIQUE(effective_to, identity); NULL end bounds never collide. Must be
// called with mu held.
func (r *MemoryRepository[T]) checkUnique(v T, selfID int64) error {
	rec, id := v.Audit(), v.NaturalKey().Identity
	for otherID, data := range r.rows {
		if otherID == selfID {
			continue
		}
		other, err := r.decode(data)
		if err != nil {
			return err
		}
		if !other.NaturalKey().Identity.Equal(id) {
			continue
		}
		o := other.Audit()
		if o.EffectiveFrom.Equal(rec.EffectiveFrom) {
			return fmt.Errorf("%w: effective_from %s of %s", ErrUniqueViolation, formatTime(rec.EffectiveFrom), id)
		}
		if rec.EffectiveTo != nil && o.EffectiveTo != nil && o.EffectiveTo.Equal(*rec.EffectiveTo) {
			return fmt.Errorf("%w: effective_to %s of %s", ErrUniqueViolation, formatTime(*rec.EffectiveTo), id)
		}
	}
	return nil
}

// Identities lists the distinct identities in id order of first appearance.
func (r *MemoryRepository[T]) Identities(_ context.Context) ([]Identity, error) {
	all, err := r.scan(func(T) bool { return true })
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []Identity
	for _, v := range all {
		id := v.NaturalKey().Identity
		if h := id.Hash(); !seen[h] {
			seen[h] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// Active returns every open-ended version.
func (r *MemoryRepository[T]) Active(_ context.Context) ([]T, error) {
	return r.scan(func(v T) bool { return v.Audit().Active() })
}

// Atomic runs fn as one transaction. Nested calls join the outer one.
func (r *MemoryRepository[T]) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.inTx(ctx) {
		return fn(ctx)
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	snapshot := make(map[int64][]byte, len(r.rows))
	for id, data := range r.rows {
		snapshot[id] = data
	}
	nextID := r.nextID
	r.mu.RUnlock()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, r)); err != nil {
		r.mu.Lock()
		r.rows, r.nextID = snapshot, nextID
		r.mu.Unlock()
		return err
	}
	return nil
}

// Len returns the number of stored versions.
func (r *MemoryRepository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
