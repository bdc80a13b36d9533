// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package spatial

import (
	"context"
	"errors"

	"github.com/tomtom215/spatial/internal/cache"
	"github.com/tomtom215/spatial/internal/database"
	"github.com/tomtom215/spatial/internal/temporal"
)

// Entity family names, used in cache keys, logs, metrics and routes.
const (
	FamilyMap   = "map"
	FamilyLayer = "layer"
)

// Stores holds the temporal store of every entity family.
type Stores struct {
	Maps   *temporal.Store[*Map]
	Layers *temporal.Store[*Layer]

	// Cache is the version cache shared by both stores.
	Cache *cache.VersionCache
}

// NewStores creates DuckDB-backed stores sharing one version cache.
func NewStores(db *database.DB, vc *cache.VersionCache, opts ...temporal.Option) *Stores {
	return &Stores{
		Maps:   temporal.NewStore[*Map](FamilyMap, NewMapRepository(db), vc, opts...),
		Layers: temporal.NewStore[*Layer](FamilyLayer, NewLayerRepository(db), vc, opts...),
		Cache:  vc,
	}
}

// NewMemoryStores creates stores over in-memory repositories.
func NewMemoryStores(vc *cache.VersionCache, opts ...temporal.Option) *Stores {
	return &Stores{
		Maps:   temporal.NewStore[*Map](FamilyMap, temporal.NewMemoryRepository[*Map](), vc, opts...),
		Layers: temporal.NewStore[*Layer](FamilyLayer, temporal.NewMemoryRepository[*Layer](), vc, opts...),
		Cache:  vc,
	}
}

// RepairAll runs FixVersions over every identity of every family. wait is
// passed to each family's sweep. A storage error in one family does not
// stop the others; all errors are joined.
func (s *Stores) RepairAll(ctx context.Context, wait func(context.Context) error) ([]*temporal.RepairReport, error) {
	maps, mapErr := s.Maps.RepairAll(ctx, wait)
	if ctx.Err() != nil {
		return maps, errors.Join(mapErr, ctx.Err())
	}
	layers, layerErr := s.Layers.RepairAll(ctx, wait)
	return append(maps, layers...), errors.Join(mapErr, layerErr)
}
