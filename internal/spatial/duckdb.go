// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package spatial

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/spatial/internal/database"
	"github.com/tomtom215/spatial/internal/metrics"
	"github.com/tomtom215/spatial/internal/temporal"
)

// recordColumns are the audit and validity columns shared by every version
// table, in scan order.
var recordColumns = []string{
	"id", "created_by", "modified_by", "date_created", "date_modified", "effective_from", "effective_to",
}

type scanner interface {
	Scan(dest ...any) error
}

// versionTable implements temporal.Repository over one DuckDB table. The
// entity-specific parts are the business columns and their codecs.
type versionTable[T temporal.Entity] struct {
	db       *database.DB
	table    string
	identity string
	columns  []string

	// scan reads the business columns after the record columns.
	scan func(s scanner, rec []any) (T, error)

	// values returns the business column values in column order.
	values func(v T) ([]any, error)
}

func (t *versionTable[T]) selectSQL() string {
	return "SELECT " + strings.Join(recordColumns, ", ") + ", " + strings.Join(t.columns, ", ") + " FROM " + t.table
}

func (t *versionTable[T]) observe(op string, start time.Time, err error) {
	if errors.Is(err, temporal.ErrNotFound) {
		err = nil
	}
	metrics.RecordDBQuery(op, t.table, time.Since(start), err)
}

// recordDest returns scan targets for the record columns. finishRecord must
// be called after a successful scan.
func recordDest(rec *temporal.Record, to *sql.NullTime) []any {
	return []any{&rec.ID, &rec.CreatedBy, &rec.ModifiedBy, &rec.DateCreated, &rec.DateModified, &rec.EffectiveFrom, to}
}

func finishRecord(rec *temporal.Record, to sql.NullTime) {
	rec.DateCreated = rec.DateCreated.UTC()
	rec.DateModified = rec.DateModified.UTC()
	rec.EffectiveFrom = rec.EffectiveFrom.UTC()
	rec.EffectiveTo = nil
	if to.Valid {
		end := to.Time.UTC()
		rec.EffectiveTo = &end
	}
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (t *versionTable[T]) query(ctx context.Context, op, where string, args ...any) (result []T, err error) {
	start := time.Now()
	defer func() { t.observe(op, start, err) }()

	rows, err := t.db.Querier(ctx).QueryContext(ctx, t.selectSQL()+" "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec temporal.Record
		var to sql.NullTime
		v, err := t.scan(rows, recordDest(&rec, &to))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.table, err)
		}
		finishRecord(&rec, to)
		*v.Audit() = rec
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.table, err)
	}
	return result, nil
}

func identityValue(id temporal.Identity) (string, error) {
	if len(id) != 1 {
		return "", fmt.Errorf("identity %q must have exactly one field", id)
	}
	return id[0], nil
}

// VersionSet implements temporal.Repository.
func (t *versionTable[T]) VersionSet(ctx context.Context, id temporal.Identity) ([]T, error) {
	value, err := identityValue(id)
	if err != nil {
		return nil, err
	}
	return t.query(ctx, "version_set", "WHERE "+t.identity+" = ? ORDER BY effective_from, id", value)
}

// GetByNaturalKey implements temporal.Repository.
func (t *versionTable[T]) GetByNaturalKey(ctx context.Context, key temporal.NaturalKey) (T, error) {
	var zero T
	value, err := identityValue(key.Identity)
	if err != nil {
		return zero, err
	}

	var found []T
	if key.EffectiveTo == nil {
		found, err = t.query(ctx, "get_by_natural_key", "WHERE "+t.identity+" = ? AND effective_to IS NULL", value)
	} else {
		found, err = t.query(ctx, "get_by_natural_key", "WHERE "+t.identity+" = ? AND effective_to = ?", value, key.EffectiveTo.UTC())
	}
	if err != nil {
		return zero, err
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%w: %s %s", temporal.ErrNotFound, t.table, key)
	case 1:
		return found[0], nil
	default:
		return zero, &temporal.AuditError{Key: key.String(), Reason: fmt.Sprintf("%d %s rows share the natural key", len(found), t.table)}
	}
}

// Insert implements temporal.Repository.
func (t *versionTable[T]) Insert(ctx context.Context, v T) (err error) {
	start := time.Now()
	defer func() { t.observe("insert", start, err) }()

	business, err := t.values(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s version: %w", t.table, err)
	}
	rec := v.Audit()
	args := append([]any{
		rec.CreatedBy, rec.ModifiedBy, rec.DateCreated.UTC(), rec.DateModified.UTC(),
		rec.EffectiveFrom.UTC(), nullableTime(rec.EffectiveTo),
	}, business...)

	columns := append(append([]string{}, recordColumns[1:]...), t.columns...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", t.table, strings.Join(columns, ", "), placeholders)

	var id int64
	if err := t.db.Querier(ctx).QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return database.ConstraintError("insert "+t.table+" version", err)
	}
	rec.ID = id
	return nil
}

// Update implements temporal.Repository. Only the audit and validity
// columns are written; the business columns of a stored version never
// change.
func (t *versionTable[T]) Update(ctx context.Context, v T) (err error) {
	start := time.Now()
	defer func() { t.observe("update", start, err) }()

	rec := v.Audit()
	query := "UPDATE " + t.table + " SET modified_by = ?, date_modified = ?, effective_from = ?, effective_to = ? WHERE id = ?"
	res, err := t.db.Querier(ctx).ExecContext(ctx, query,
		rec.ModifiedBy, rec.DateModified.UTC(), rec.EffectiveFrom.UTC(), nullableTime(rec.EffectiveTo), rec.ID)
	if err != nil {
		return database.ConstraintError("update "+t.table+" version", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s id %d", temporal.ErrNotFound, t.table, rec.ID)
	}
	return nil
}

// Identities implements temporal.Repository, oldest identity first.
func (t *versionTable[T]) Identities(ctx context.Context) (ids []temporal.Identity, err error) {
	start := time.Now()
	defer func() { t.observe("identities", start, err) }()

	query := fmt.Sprintf("SELECT %[1]s FROM %[2]s GROUP BY %[1]s ORDER BY MIN(id)", t.identity, t.table)
	rows, err := t.db.Querier(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s identities: %w", t.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan %s identity: %w", t.table, err)
		}
		ids = append(ids, temporal.Identity{value})
	}
	return ids, rows.Err()
}

// Active implements temporal.Repository.
func (t *versionTable[T]) Active(ctx context.Context) ([]T, error) {
	return t.query(ctx, "active", "WHERE effective_to IS NULL ORDER BY "+t.identity+", id")
}

// Atomic implements temporal.Repository.
func (t *versionTable[T]) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithTx(ctx, fn)
}
