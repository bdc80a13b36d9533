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

func versionCount(t *testing.T, repo *MemoryRepository[*widget], code string) int {
	t.Helper()
	versions, err := repo.VersionSet(context.Background(), Identity{code})
	if err != nil {
		t.Fatalf("VersionSet(%s): %v", code, err)
	}
	return len(versions)
}

func TestMemoryRepositoryRollbackKeepsOutsideWrites(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository[*widget]()
	ctx := context.Background()
	errAbort := errors.New("abort")

	outside := make(chan error, 1)
	err := repo.Atomic(ctx, func(txCtx context.Context) error {
		if err := repo.Insert(txCtx, active("inside", "a", jan)); err != nil {
			return err
		}
		go func() { outside <- repo.Insert(ctx, active("outside", "b", jan)) }()

		// The outside write must wait for this transaction to finish.
		select {
		case err := <-outside:
			t.Errorf("outside write finished inside the transaction: %v", err)
		case <-time.After(20 * time.Millisecond):
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Atomic() error = %v, want abort", err)
	}

	select {
	case err := <-outside:
		if err != nil {
			t.Fatalf("outside Insert() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("outside write never completed")
	}

	if n := versionCount(t, repo, "inside"); n != 0 {
		t.Errorf("rolled back write survived: %d versions", n)
	}
	if n := versionCount(t, repo, "outside"); n != 1 {
		t.Errorf("outside write lost by rollback: %d versions", n)
	}
}

func TestMemoryRepositoryTransactionsAreScopedToOneRepository(t *testing.T) {
	t.Parallel()

	first := NewMemoryRepository[*widget]()
	second := NewMemoryRepository[*widget]()
	ctx := context.Background()

	err := first.Atomic(ctx, func(txCtx context.Context) error {
		if err := first.Insert(txCtx, active("w", "a", jan)); err != nil {
			return err
		}
		// second is not part of first's transaction.
		if err := second.Insert(txCtx, active("w", "a", jan)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("Atomic() error = nil, want abort")
	}

	if n := versionCount(t, first, "w"); n != 0 {
		t.Errorf("first kept %d versions after rollback", n)
	}
	if n := versionCount(t, second, "w"); n != 1 {
		t.Errorf("second lost its write: %d versions", n)
	}
}

func TestMemoryRepositoryNestedAtomicJoins(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository[*widget]()
	err := repo.Atomic(context.Background(), func(txCtx context.Context) error {
		return repo.Atomic(txCtx, func(inner context.Context) error {
			return repo.Insert(inner, active("w", "a", jan))
		})
	})
	if err != nil {
		t.Fatalf("nested Atomic() error = %v", err)
	}
	if repo.Len() != 1 {
		t.Errorf("Len() = %d, want 1", repo.Len())
	}
}
