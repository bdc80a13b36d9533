// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package spatial

import (
	"database/sql"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spatial/internal/database"
	"github.com/tomtom215/spatial/internal/temporal"
)

// MapRepository stores map versions in the maps table.
type MapRepository struct {
	versionTable[*Map]
}

var _ temporal.Repository[*Map] = (*MapRepository)(nil)

// NewMapRepository creates a MapRepository over db.
func NewMapRepository(db *database.DB) *MapRepository {
	return &MapRepository{versionTable[*Map]{
		db:       db,
		table:    "maps",
		identity: "map_id",
		columns: []string{
			"map_id", "name", "layers", "bounds", "center", "zoom", "scale",
			"immutable", "workdir", "completed_files", "map_type", "template", "tags",
		},
		scan:   scanMap,
		values: mapValues,
	}}
}

func scanMap(s scanner, rec []any) (*Map, error) {
	m := &Map{}
	var (
		layers                             string
		bounds, workdir, files, tmpl, tags sql.NullString
	)
	dest := append(rec,
		&m.MapID, &m.Name, &layers, &bounds, &m.Center, &m.Zoom, &m.Scale,
		&m.Immutable, &workdir, &files, &m.MapType, &tmpl, &tags,
	)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(layers), &m.Layers); err != nil {
		return nil, err
	}
	if m.Layers == nil {
		m.Layers = []LayerRef{}
	}
	if files.Valid {
		if err := json.Unmarshal([]byte(files.String), &m.CompletedFiles); err != nil {
			return nil, err
		}
	}
	m.Bounds, m.Workdir, m.Template, m.Tags = bounds.String, workdir.String, tmpl.String, tags.String
	return m, nil
}

func mapValues(m *Map) ([]any, error) {
	layers, err := json.Marshal(m.layerRefs())
	if err != nil {
		return nil, err
	}
	var files any
	if m.CompletedFiles != nil {
		data, err := json.Marshal(m.CompletedFiles)
		if err != nil {
			return nil, err
		}
		files = string(data)
	}
	return []any{
		m.MapID, m.Name, string(layers), nullableString(m.Bounds), m.Center, m.Zoom, m.Scale,
		m.Immutable, nullableString(m.Workdir), files, m.MapType, nullableString(m.Template), nullableString(m.Tags),
	}, nil
}
