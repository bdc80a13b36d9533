// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package spatial

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/temporal"
	"github.com/tomtom215/spatial/internal/validation"
)

// Map types.
const (
	MapTypeMap   = "map"
	MapTypeTheme = "theme"
)

// Map defaults.
const (
	DefaultCenter = "POINT (0 0)"
	DefaultScale  = 50000
)

// LayerRef places a layer on a map.
type LayerRef struct {
	LayerID string  `json:"layer_id" validate:"required,max=320"`
	Opacity float64 `json:"opacity" validate:"gte=0,lte=1"`
}

// Map is one version of a print or theme map. Its identity is MapID.
type Map struct {
	temporal.Record

	MapID  string     `json:"map_id" validate:"required,max=320"`
	Name   string     `json:"name" validate:"required,max=320"`
	Layers []LayerRef `json:"layers" validate:"dive"`

	// Bounds is an optional WKT polygon, Center a WKT point.
	Bounds string `json:"bounds,omitempty" validate:"omitempty,wkt=POLYGON"`
	Center string `json:"center" validate:"required,wkt=POINT"`

	Zoom      float64 `json:"zoom" validate:"gte=0"`
	Scale     int     `json:"scale" validate:"gt=0"`
	Immutable bool    `json:"immutable"`

	// Workdir is the print directory; its last segment is the UTC stamp of
	// the print run.
	Workdir        string   `json:"workdir,omitempty" validate:"max=320"`
	CompletedFiles []string `json:"completed_files,omitempty"`

	MapType  string `json:"map_type" validate:"oneof=map theme"`
	Template string `json:"template,omitempty" validate:"max=64"`
	Tags     string `json:"tags,omitempty"`
}

// NewMap returns an unsaved map with the default center, scale and type.
func NewMap(mapID, name string) *Map {
	return &Map{
		MapID:     mapID,
		Name:      name,
		Layers:    []LayerRef{},
		Center:    DefaultCenter,
		Scale:     DefaultScale,
		Immutable: true,
		MapType:   MapTypeMap,
	}
}

// NaturalKey implements temporal.Entity.
func (m *Map) NaturalKey() temporal.NaturalKey {
	return temporal.NaturalKey{EffectiveTo: m.EffectiveTo, Identity: temporal.Identity{m.MapID}}
}

// CompareFields implements temporal.Entity.
func (m *Map) CompareFields() []temporal.Field {
	return []temporal.Field{
		temporal.Scalar("map_id", m.MapID),
		temporal.Scalar("name", m.Name),
		temporal.Structured("layers", m.layerRefs()),
		temporal.Scalar("bounds", m.Bounds),
		temporal.Scalar("center", m.Center),
		temporal.Scalar("zoom", m.Zoom),
		temporal.Scalar("scale", m.Scale),
		temporal.Scalar("immutable", m.Immutable),
		temporal.Scalar("workdir", m.Workdir),
		temporal.Structured("completed_files", m.completedFiles()),
		temporal.Scalar("map_type", m.MapType),
		temporal.Scalar("template", m.Template),
		temporal.Scalar("tags", m.Tags),
	}
}

func (m *Map) layerRefs() []LayerRef {
	if m.Layers == nil {
		return []LayerRef{}
	}
	return m.Layers
}

func (m *Map) completedFiles() []string {
	if m.CompletedFiles == nil {
		return []string{}
	}
	return m.CompletedFiles
}

// Validate checks the business fields.
func (m *Map) Validate() error {
	if verr := validation.ValidateStruct(m); verr != nil {
		return verr
	}
	return nil
}

// Output is one downloadable file of a printed map.
type Output struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
}

// Outputs lists the completed print files except SVG sources, named
// <map_id>_<utc>.<ext>.
func (m *Map) Outputs() []Output {
	base := m.MapID + "_" + m.UTCString()
	var out []Output
	for _, name := range m.CompletedFiles {
		ext := filepath.Ext(name)
		if ext == ".svg" {
			continue
		}
		out = append(out, Output{Filename: base + ext, Format: strings.TrimPrefix(ext, ".")})
	}
	return out
}

// UTCString is the last path segment of Workdir.
func (m *Map) UTCString() string {
	parts := strings.Split(m.Workdir, "/")
	return parts[len(parts)-1]
}

// PrintLayers returns the layers that are printed, leaving out symbol
// overlays.
func (m *Map) PrintLayers() []LayerRef {
	var out []LayerRef
	for _, l := range m.Layers {
		if !strings.Contains(l.LayerID, "_symbols_overlay") {
			out = append(out, l)
		}
	}
	return out
}

// URL is the portal address of the printed map.
func (m *Map) URL() string {
	return fmt.Sprintf("/apps/spatial/map/%s_%s", m.MapID, m.UTCString())
}

// ScaleText renders the scale denominator as 1.5M, 50.0K or the raw
// number.
func (m *Map) ScaleText() string {
	switch {
	case m.Scale > 1000000:
		return formatTenths(float64(m.Scale)/1000000) + "M"
	case m.Scale > 1000:
		return formatTenths(float64(m.Scale)/1000) + "K"
	default:
		return strconv.Itoa(m.Scale)
	}
}

// formatTenths rounds half to even.
func formatTenths(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// MapJSON is the client representation of a map.
type MapJSON struct {
	Name      string            `json:"name"`
	Layers    []LayerRef        `json:"layers"`
	Tags      string            `json:"tags"`
	Immutable bool              `json:"immutable"`
	Type      string            `json:"type"`
	Center    *geojson.Geometry `json:"center"`
	Scale     int               `json:"scale"`
	MapID     string            `json:"map_id"`
	URL       string            `json:"url"`
}

// AsJSON returns the client representation. For a user other than the
// creator the map is always immutable; an empty user sees the stored flag.
func (m *Map) AsJSON(user string) MapJSON {
	immutable := m.Immutable
	if user != "" && user != m.CreatedBy {
		immutable = true
	}
	center, err := ParsePoint(m.Center)
	if err != nil {
		logging.Warn().Err(err).Str("map_id", m.MapID).Msg("Map center is not a WKT point, rendering null")
	}
	return MapJSON{
		Name:      m.Name,
		Layers:    m.layerRefs(),
		Tags:      m.Tags,
		Immutable: immutable,
		Type:      m.MapType,
		Center:    center,
		Scale:     m.Scale,
		MapID:     m.MapID,
		URL:       m.URL(),
	}
}
