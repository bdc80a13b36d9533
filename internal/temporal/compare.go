// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Compare reports whether a and b carry the same business data. Audit fields
// (id, actors, dates and the validity interval) are ignored.
func Compare[T Entity](a, b T) bool {
	fa, fb := a.CompareFields(), b.CompareFields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i].Name != fb[i].Name || fa[i].Kind != fb[i].Kind {
			return false
		}
		if !fieldEqual(fa[i], fb[i]) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b Field) bool {
	switch a.Kind {
	case RelationField:
		if !a.Exists || !b.Exists {
			return true
		}
		return jsonEqual(a.Value, b.Value)
	case StructuredField:
		return jsonEqual(a.Value, b.Value)
	default:
		return a.Value == b.Value
	}
}

// jsonEqual compares the canonical JSON forms of a and b: both are encoded,
// decoded into generic values and re-encoded with sorted object keys.
func jsonEqual(a, b any) bool {
	ca, err := canonicalJSON(a)
	if err != nil {
		return false
	}
	cb, err := canonicalJSON(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

func canonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
