// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no version satisfies a point or boundary query.
	ErrNotFound = errors.New("version not found")

	// ErrAudit matches every *AuditError, collisions included.
	ErrAudit = errors.New("audit error")

	// ErrAuditCollision matches an *AuditError raised for a no-op write or a
	// lost race on a unique constraint.
	ErrAuditCollision = errors.New("audit collision")

	// ErrRepairFailed matches a *RepairFailedError.
	ErrRepairFailed = errors.New("repair failed")

	// ErrUniqueViolation is returned by repositories when a write breaks the
	// (effective_from, identity) or (effective_to, identity) constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// AuditError reports a broken timeline rule for one natural key.
type AuditError struct {
	Key       string
	Reason    string
	Collision bool
	Err       error
}

func (e *AuditError) Error() string {
	kind := "audit error"
	if e.Collision {
		kind = "audit collision"
	}
	msg := fmt.Sprintf("%s: %s: %s", kind, e.Key, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrAudit) hold for every audit error and
// errors.Is(err, ErrAuditCollision) hold for collisions.
func (e *AuditError) Is(target error) bool {
	return target == ErrAudit || (e.Collision && target == ErrAuditCollision)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

func auditError(key NaturalKey, format string, args ...any) error {
	return &AuditError{Key: key.String(), Reason: fmt.Sprintf(format, args...)}
}

func collision(key NaturalKey, cause error, format string, args ...any) error {
	return &AuditError{Key: key.String(), Reason: fmt.Sprintf(format, args...), Collision: true, Err: cause}
}

// RepairFailedError reports a version FixVersions gave up on.
type RepairFailedError struct {
	Key       string
	VersionID int64
	Attempts  int
	Err       error
}

func (e *RepairFailedError) Error() string {
	msg := fmt.Sprintf("repair failed: %s: version %d not closed after %d attempts", e.Key, e.VersionID, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RepairFailedError) Is(target error) bool {
	return target == ErrRepairFailed
}

func (e *RepairFailedError) Unwrap() error {
	return e.Err
}

func notFound(key NaturalKey, what string) error {
	return fmt.Errorf("%w: %s: %s", ErrNotFound, key.Identity, what)
}

// outcome classifies err for metrics labels.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuditCollision):
		return "collision"
	case errors.Is(err, ErrAudit):
		return "audit_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRepairFailed):
		return "repair_failed"
	default:
		return "error"
	}
}
