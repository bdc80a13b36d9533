// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"context"
)

// Entity is implemented by every versioned type, normally a pointer to a
// struct embedding Record.
type Entity interface {
	// Audit exposes the embedded Record.
	Audit() *Record

	// NaturalKey returns [effective_to, identity...] for this version.
	NaturalKey() NaturalKey

	// CompareFields lists the business fields, in a fixed order, that decide
	// whether two versions are identical. Audit fields are never listed.
	CompareFields() []Field
}

// FieldKind selects how a Field is compared.
type FieldKind int

const (
	// ScalarField values are compared with ==.
	ScalarField FieldKind = iota

	// StructuredField values are compared by canonical JSON.
	StructuredField

	// RelationField values are compared by canonical JSON, and are equal
	// whenever either side does not exist yet.
	RelationField
)

// Field is one comparable value of an entity.
type Field struct {
	Name   string
	Kind   FieldKind
	Value  any
	Exists bool
}

// Scalar declares a field compared with ==. V must be a concrete comparable
// type, not a pointer or an interface.
func Scalar[V comparable](name string, value V) Field {
	return Field{Name: name, Kind: ScalarField, Value: value, Exists: true}
}

// Structured declares a JSON-like field (maps, slices, nested structs).
func Structured(name string, value any) Field {
	return Field{Name: name, Kind: StructuredField, Value: value, Exists: true}
}

// Relation declares a related record that may not exist yet.
func Relation(name string, value any, exists bool) Field {
	return Field{Name: name, Kind: RelationField, Value: value, Exists: exists}
}

// Repository is the persistence contract of one entity family.
//
// Every method called with a context returned by Atomic must run inside
// that transaction.
type Repository[T Entity] interface {
	// VersionSet returns every version sharing id, in any order.
	VersionSet(ctx context.Context, id Identity) ([]T, error)

	// GetByNaturalKey returns the single version with key, or an error
	// matching ErrNotFound.
	GetByNaturalKey(ctx context.Context, key NaturalKey) (T, error)

	// Insert persists v as a new row and sets v.Audit().ID. A broken unique
	// constraint is reported as ErrUniqueViolation.
	Insert(ctx context.Context, v T) error

	// Update persists the audit and validity fields of the row with
	// v.Audit().ID. Business fields of a stored version never change.
	Update(ctx context.Context, v T) error

	// Identities lists every distinct identity of the family.
	Identities(ctx context.Context) ([]Identity, error)

	// Active returns every version with a nil EffectiveTo.
	Active(ctx context.Context) ([]T, error)

	// Atomic runs fn in one storage transaction, rolled back if fn fails.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}
