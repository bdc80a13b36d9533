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

// LayerRepository stores layer versions, raster attributes included, in
// the layers table.
type LayerRepository struct {
	versionTable[*Layer]
}

var _ temporal.Repository[*Layer] = (*LayerRepository)(nil)

// NewLayerRepository creates a LayerRepository over db.
func NewLayerRepository(db *database.DB) *LayerRepository {
	return &LayerRepository{versionTable[*Layer]{
		db:       db,
		table:    "layers",
		identity: "layer_id",
		columns: []string{
			"layer_id", "name", "legend", "details", "shown", "immutable",
			"layer_type", "raster_layers", "url", "transition_effect", "tiled", "transparent",
		},
		scan:   scanLayer,
		values: layerValues,
	}}
}

func scanLayer(s scanner, rec []any) (*Layer, error) {
	l := &Layer{}
	var (
		legend, layerType, rasterLayers, url, effect sql.NullString
		details                                      string
		tiled, transparent                           sql.NullBool
	)
	dest := append(rec,
		&l.LayerID, &l.Name, &legend, &details, &l.Shown, &l.Immutable,
		&layerType, &rasterLayers, &url, &effect, &tiled, &transparent,
	)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	l.Legend = legend.String
	if err := json.Unmarshal([]byte(details), &l.Details); err != nil {
		return nil, err
	}
	if l.Details == nil {
		l.Details = map[string]any{}
	}
	if layerType.Valid {
		l.Raster = &RasterAttributes{
			LayerType:   layerType.String,
			Layers:      rasterLayers.String,
			URL:         url.String,
			Tiled:       tiled.Bool,
			Transparent: transparent.Bool,
		}
		if effect.Valid {
			e := effect.String
			l.Raster.TransitionEffect = &e
		}
	}
	return l, nil
}

func layerValues(l *Layer) ([]any, error) {
	details, err := json.Marshal(l.details())
	if err != nil {
		return nil, err
	}
	values := []any{l.LayerID, l.Name, nullableString(l.Legend), string(details), l.Shown, l.Immutable}

	if r := l.Raster; r != nil {
		var effect any
		if r.TransitionEffect != nil {
			effect = *r.TransitionEffect
		}
		return append(values, r.LayerType, r.Layers, r.URL, effect, r.Tiled, r.Transparent), nil
	}
	return append(values, nil, nil, nil, nil, nil, nil), nil
}
