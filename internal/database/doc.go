// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package database owns the DuckDB file holding the version tables.
//
// # Overview
//
// The package opens the database, creates the maps and layers tables with
// their unique constraints, applies versioned migrations and exposes
// transactions to the repositories in the spatial package.
//
// Files:
//   - database.go: connection lifecycle (open, pool, ping, checkpoint, close)
//   - database_schema.go: sequences, tables and indexes
//   - migrations.go: schema_migrations table and data migrations
//   - tx.go: WithTx and the context-carried Querier
//   - errors.go: constraint error translation
//
// # Transactions
//
// WithTx stores the transaction in the context it passes on. Repositories
// call Querier(ctx) so that every statement of one temporal write runs in
// the same transaction:
//
//	err := db.WithTx(ctx, func(ctx context.Context) error {
//	    _, err := db.Querier(ctx).ExecContext(ctx, "UPDATE maps SET ...")
//	    return err
//	})
//
// # Errors
//
// DuckDB reports constraint violations as plain errors. ConstraintError
// recognizes them by message and wraps temporal.ErrUniqueViolation so the
// temporal store can turn a lost race into an audit collision.
package database
