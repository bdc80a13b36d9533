// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
database_schema.go - Database Schema Management

Tables:
  - maps: versions of print/theme maps, identity map_id
  - layers: versions of layers, identity layer_id, raster attributes in
    nullable columns (layer_type IS NULL for plain layers)

Every versioned table carries the audit columns (created_by, modified_by,
date_created, date_modified) and the validity interval
[effective_from, effective_to). effective_to IS NULL marks the active
version.

Constraints:
UNIQUE(effective_from, <identity>) and UNIQUE(effective_to, <identity>)
reject two versions starting or ending at the same instant. NULL end bounds
never collide, so the constraints alone cannot prevent a second active
version; the temporal store checks that before writing and FixVersions
repairs it after the fact.

Timestamps are stored as TIMESTAMP in UTC with microsecond precision.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// BlankLegendURL is the legend of a layer that names none.
const BlankLegendURL = "https://static.dpaw.wa.gov.au/static/firesource/static/source/legends/blank.png"

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the sequences and version tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS maps_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS layers_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS maps (
			id BIGINT PRIMARY KEY DEFAULT nextval('maps_id_seq'),

			-- Audit
			created_by TEXT NOT NULL,
			modified_by TEXT NOT NULL,
			date_created TIMESTAMP NOT NULL,
			date_modified TIMESTAMP NOT NULL,
			effective_from TIMESTAMP NOT NULL,
			effective_to TIMESTAMP,

			-- Map
			map_id TEXT NOT NULL,
			name TEXT NOT NULL,
			layers TEXT NOT NULL DEFAULT '[]',
			bounds TEXT,
			center TEXT NOT NULL DEFAULT 'POINT (0 0)',
			zoom DOUBLE NOT NULL DEFAULT 0,
			scale INTEGER NOT NULL DEFAULT 50000,
			immutable BOOLEAN NOT NULL DEFAULT true,
			workdir TEXT,
			completed_files TEXT,
			map_type TEXT NOT NULL DEFAULT 'map',
			template TEXT,
			tags TEXT,

			UNIQUE (effective_from, map_id),
			UNIQUE (effective_to, map_id)
		)`,

		`CREATE TABLE IF NOT EXISTS layers (
			id BIGINT PRIMARY KEY DEFAULT nextval('layers_id_seq'),

			-- Audit
			created_by TEXT NOT NULL,
			modified_by TEXT NOT NULL,
			date_created TIMESTAMP NOT NULL,
			date_modified TIMESTAMP NOT NULL,
			effective_from TIMESTAMP NOT NULL,
			effective_to TIMESTAMP,

			-- Layer
			layer_id TEXT NOT NULL,
			name TEXT NOT NULL,
			legend TEXT DEFAULT '` + BlankLegendURL + `',
			details TEXT NOT NULL DEFAULT '{}',
			shown BOOLEAN NOT NULL DEFAULT false,
			immutable BOOLEAN NOT NULL DEFAULT true,

			-- Raster attributes
			layer_type TEXT,
			raster_layers TEXT,
			url TEXT,
			transition_effect TEXT,
			tiled BOOLEAN,
			transparent BOOLEAN,

			UNIQUE (effective_from, layer_id),
			UNIQUE (effective_to, layer_id)
		)`,
	}
}

// createIndexes creates the identity indexes used by timeline lookups. The
// unique constraints already index the temporal columns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_maps_map_id ON maps(map_id)`,
		`CREATE INDEX IF NOT EXISTS idx_layers_layer_id ON layers(layer_id)`,
	}
	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
