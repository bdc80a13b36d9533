// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package database

import (
	"errors"
	"testing"

	"github.com/tomtom215/spatial/internal/temporal"
)

// mockCloser implements io.Closer for testing
type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

func TestCloseQuietly(t *testing.T) {
	t.Parallel()

	closeQuietly(nil)

	closer := &mockCloser{err: errors.New("close failed")}
	closeQuietly(closer)
	if !closer.closed {
		t.Error("Expected closer to be closed")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unique", errors.New(`Constraint Error: Duplicate key "effective_from: 2015-01-01 00:00:00, map_id: m1" violates unique constraint.`), true},
		{"primary key", errors.New(`Constraint Error: Duplicate key "id: 1" violates primary key constraint.`), true},
		{"not null", errors.New(`Constraint Error: NOT NULL constraint failed: maps.name`), false},
		{"other", errors.New("Binder Error: column not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstraintError(t *testing.T) {
	t.Parallel()

	if ConstraintError("insert", nil) != nil {
		t.Error("nil error should stay nil")
	}

	unique := ConstraintError("insert", errors.New(`Constraint Error: Duplicate key "x" violates unique constraint.`))
	if !errors.Is(unique, temporal.ErrUniqueViolation) {
		t.Errorf("expected ErrUniqueViolation, got %v", unique)
	}

	conflict := ConstraintError("update", errors.New("TransactionContext Error: Transaction conflict: cannot update a table that has been altered"))
	if !errors.Is(conflict, temporal.ErrUniqueViolation) {
		t.Errorf("expected transaction conflict to map to ErrUniqueViolation, got %v", conflict)
	}

	base := errors.New("IO Error: disk full")
	other := ConstraintError("update", base)
	if errors.Is(other, temporal.ErrUniqueViolation) || !errors.Is(other, base) {
		t.Errorf("unexpected wrapping: %v", other)
	}
}
