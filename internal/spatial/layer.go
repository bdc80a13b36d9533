// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package spatial

import (
	"fmt"
	"strings"

	"github.com/tomtom215/spatial/internal/database"
	"github.com/tomtom215/spatial/internal/temporal"
	"github.com/tomtom215/spatial/internal/validation"
)

// Raster layer types. A layer without raster attributes is a point layer.
const (
	LayerTypePoint   = "point"
	LayerTypeLine    = "line"
	LayerTypePolygon = "polygon"
	LayerTypeOverlay = "overlay"
	LayerTypeImagery = "imagery"
)

// TransitionResize is the default transition effect of raster layers.
const TransitionResize = "resize"

// RasterAttributes are the WMS source settings of a raster layer.
type RasterAttributes struct {
	LayerType string `json:"layer_type" validate:"oneof=point line polygon overlay imagery"`

	// Layers is the comma separated WMS layer list.
	Layers string `json:"layers" validate:"required,max=320"`
	URL    string `json:"url" validate:"required,max=640"`

	// TransitionEffect is "resize" or nil.
	TransitionEffect *string `json:"transition_effect" validate:"omitnil,oneof=resize"`
	Tiled            bool    `json:"tiled"`
	Transparent      bool    `json:"transparent"`
}

// NewRasterAttributes returns tiled, transparent attributes with the resize
// transition.
func NewRasterAttributes(layerType, layers, url string) *RasterAttributes {
	effect := TransitionResize
	return &RasterAttributes{
		LayerType:        layerType,
		Layers:           layers,
		URL:              url,
		TransitionEffect: &effect,
		Tiled:            true,
		Transparent:      true,
	}
}

// Layer is one version of a map layer. Its identity is LayerID.
type Layer struct {
	temporal.Record

	LayerID   string         `json:"layer_id" validate:"required,max=320"`
	Name      string         `json:"name" validate:"required,max=320"`
	Legend    string         `json:"legend" validate:"max=320"`
	Details   map[string]any `json:"details"`
	Shown     bool           `json:"shown"`
	Immutable bool           `json:"immutable"`

	// Raster is nil for plain layers.
	Raster *RasterAttributes `json:"raster,omitempty"`
}

// NewLayer returns an unsaved layer with the blank legend.
func NewLayer(layerID, name string) *Layer {
	return &Layer{
		LayerID:   layerID,
		Name:      name,
		Legend:    database.BlankLegendURL,
		Details:   map[string]any{},
		Immutable: true,
	}
}

// NaturalKey implements temporal.Entity.
func (l *Layer) NaturalKey() temporal.NaturalKey {
	return temporal.NaturalKey{EffectiveTo: l.EffectiveTo, Identity: temporal.Identity{l.LayerID}}
}

// CompareFields implements temporal.Entity. Raster attributes are a related
// record: a version without them compares equal to one that has them.
func (l *Layer) CompareFields() []temporal.Field {
	return []temporal.Field{
		temporal.Scalar("layer_id", l.LayerID),
		temporal.Scalar("name", l.Name),
		temporal.Scalar("legend", l.Legend),
		temporal.Structured("details", l.details()),
		temporal.Scalar("shown", l.Shown),
		temporal.Scalar("immutable", l.Immutable),
		temporal.Relation("raster", l.Raster, l.Raster != nil),
	}
}

func (l *Layer) details() map[string]any {
	if l.Details == nil {
		return map[string]any{}
	}
	return l.Details
}

// Validate checks the business fields.
func (l *Layer) Validate() error {
	if verr := validation.ValidateStruct(l); verr != nil {
		return verr
	}
	return nil
}

// LayerIndex is the portal address of the layer.
func (l *Layer) LayerIndex() string {
	return fmt.Sprintf("/apps/spatial/layer/%s", l.LayerID)
}

// MetadataTags joins details["tags"], or the "_" separated parts of the
// layer id when there are none. Immutable layers get a trailing "default".
func (l *Layer) MetadataTags() string {
	var tags string
	switch v := l.Details["tags"].(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, t := range v {
			parts = append(parts, fmt.Sprint(t))
		}
		tags = strings.Join(parts, ", ")
	case []string:
		tags = strings.Join(v, ", ")
	case string:
		tags = v
	default:
		tags = strings.Join(strings.Split(l.LayerID, "_"), ", ")
	}
	if l.Immutable {
		tags += ", default"
	}
	return tags
}

// MetadataType is the raster layer type, or point for plain layers.
func (l *Layer) MetadataType() string {
	if l.Raster == nil || l.Raster.LayerType == "" {
		return LayerTypePoint
	}
	return l.Raster.LayerType
}

// Info summarises the WMS source as "<url> , <layers>" with the layer list
// cut to 64 characters. Plain layers have no info.
func (l *Layer) Info() string {
	if l.Raster == nil {
		return ""
	}
	layers := []rune(l.Raster.Layers)
	if len(layers) > 64 {
		layers = layers[:64]
	}
	return l.Raster.URL + " , " + string(layers)
}

// LayerJSON is the client representation of a layer.
type LayerJSON struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Details          map[string]any `json:"details"`
	Tags             string         `json:"tags"`
	Type             string         `json:"type"`
	URL              string         `json:"url"`
	Legend           string         `json:"legend"`
	Layers           string         `json:"layers"`
	TransitionEffect *string        `json:"transition_effect"`
	Tiled            bool           `json:"tiled"`
	Transparent      bool           `json:"transparent"`
	Shown            bool           `json:"shown"`
	Immutable        bool           `json:"immutable"`
}

// AsJSON returns the client representation.
func (l *Layer) AsJSON() LayerJSON {
	out := LayerJSON{
		ID:        l.LayerID,
		Name:      l.Name,
		Details:   l.details(),
		Tags:      l.MetadataTags(),
		Type:      l.MetadataType(),
		Legend:    l.Legend,
		Shown:     l.Shown,
		Immutable: l.Immutable,
	}
	if r := l.Raster; r != nil {
		out.URL = r.URL
		out.Layers = r.Layers
		out.TransitionEffect = r.TransitionEffect
		out.Tiled = r.Tiled
		out.Transparent = r.Transparent
	}
	return out
}
