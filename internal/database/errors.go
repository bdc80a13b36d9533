// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package database

import (
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/spatial/internal/temporal"
)

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}

// IsUniqueViolation reports whether err is a DuckDB unique or primary key
// constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Constraint Error") &&
		(strings.Contains(msg, "violates unique constraint") ||
			strings.Contains(msg, "violates primary key constraint") ||
			strings.Contains(msg, "Duplicate key"))
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update")
}

// ConstraintError translates DuckDB constraint failures into
// temporal.ErrUniqueViolation and wraps everything else with op.
// Write conflicts between concurrent transactions surface as unique
// violations too: the loser of the race must not write.
func ConstraintError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) || isTransactionConflict(err) {
		return fmt.Errorf("%s: %w: %v", op, temporal.ErrUniqueViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
