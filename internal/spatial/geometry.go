// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package spatial

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// ParsePoint converts a WKT point such as "POINT (115.86 -31.95)" to a
// GeoJSON geometry.
func ParsePoint(s string) (*geojson.Geometry, error) {
	p, err := wkt.UnmarshalPoint(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return nil, fmt.Errorf("parse WKT point %q: %w", s, err)
	}
	return geojson.NewGeometry(p), nil
}
