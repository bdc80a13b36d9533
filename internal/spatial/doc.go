// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package spatial defines the versioned entity families of the map portal.

Families:
  - Map: a print or theme map, identity map_id
  - Layer: a map layer with optional raster (WMS) attributes, identity
    layer_id

Both embed temporal.Record and implement temporal.Entity, so every write
goes through a temporal.Store and produces a new version rather than an
in-place update. MapRepository and LayerRepository persist the versions in
DuckDB; NewMemoryStores wires in-memory repositories for tests and
ephemeral runs.

Presentation helpers (Outputs, URL, ScaleText, MetadataTags, AsJSON ...)
derive client-facing values from a single version and never touch storage.
*/
package spatial
