// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package validation

import (
	"strings"
	"testing"
)

type geometryRequest struct {
	Center string `json:"center" validate:"wkt=POINT"`
	Bounds string `json:"bounds" validate:"omitempty,wkt=POLYGON"`
	Scale  int    `json:"scale" validate:"gt=0"`
	Name   string `json:"name" validate:"required,max=8"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        geometryRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  geometryRequest{Center: "POINT (115.86 -31.95)", Scale: 50000, Name: "perth"},
		},
		{
			name: "valid polygon bounds",
			req: geometryRequest{
				Center: "point(0 0)",
				Bounds: "POLYGON ((0 0, 1 0, 1 1, 0 1, 0 0))",
				Scale:  1,
				Name:   "box",
			},
		},
		{
			name:       "center is not a point",
			req:        geometryRequest{Center: "LINESTRING (0 0, 1 1)", Scale: 1, Name: "x"},
			wantFields: []string{"center"},
		},
		{
			name:       "garbage geometry and missing name",
			req:        geometryRequest{Center: "POINT (0 0)", Bounds: "POLYGON ((0 0", Scale: 0},
			wantFields: []string{"bounds", "scale", "name"},
		},
		{
			name:       "point with one coordinate",
			req:        geometryRequest{Center: "POINT (1)", Scale: 1, Name: "x"},
			wantFields: []string{"center"},
		},
		{
			name:       "point with two coordinate pairs",
			req:        geometryRequest{Center: "POINT (1 2, 3 4)", Scale: 1, Name: "x"},
			wantFields: []string{"center"},
		},
		{
			name:       "polygon without rings",
			req:        geometryRequest{Center: "POINT (1 2)", Bounds: "POLYGON (1 2 3 4)", Scale: 1, Name: "x"},
			wantFields: []string{"bounds"},
		},
		{
			name:       "non-numeric coordinates",
			req:        geometryRequest{Center: "POINT (a b)", Scale: 1, Name: "x"},
			wantFields: []string{"center"},
		},
		{
			name:       "name too long",
			req:        geometryRequest{Center: "POINT (1 2)", Scale: 1, Name: "much-too-long"},
			wantFields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.req)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			got := make([]string, 0, len(verr.Fields()))
			for _, f := range verr.Fields() {
				got = append(got, f.Field)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestTranslatedMessages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&geometryRequest{Center: "POLYGON ((0 0, 1 1, 0 0))", Scale: -1, Name: "ok"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	msg := verr.Error()
	for _, want := range []string{"center must be a WKT POINT", "scale must be greater than 0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
