// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package temporal

import (
	"crypto/sha1" //nolint:gosec // content hash for cache keys, not a security boundary
	"encoding/hex"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Record is the audit and validity part of every versioned entity.
type Record struct {
	// ID is the storage id of this version; zero until persisted.
	ID int64 `json:"id"`

	CreatedBy    string    `json:"created_by"`
	ModifiedBy   string    `json:"modified_by"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`

	// EffectiveFrom is the inclusive start; the zero time means "not chosen
	// yet" on an unsaved candidate.
	EffectiveFrom time.Time `json:"effective_from"`

	// EffectiveTo is the exclusive end; nil marks the active version.
	EffectiveTo *time.Time `json:"effective_to"`
}

// Audit returns r. Embedding Record gives an entity its Audit method.
func (r *Record) Audit() *Record {
	return r
}

// Active reports whether the version is open-ended.
func (r *Record) Active() bool {
	return r.EffectiveTo == nil
}

// Contains reports whether t lies in [EffectiveFrom, EffectiveTo).
func (r *Record) Contains(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || t.Before(*r.EffectiveTo)
}

// Identity is the ordered business part of a natural key.
type Identity []string

// String joins the fields with "/".
func (id Identity) String() string {
	return strings.Join(id, "/")
}

// Hash is a stable content hash of the identity, used as the cache entry key.
func (id Identity) Hash() string {
	data, err := json.Marshal([]string(id))
	if err != nil {
		data = []byte(id.String())
	}
	sum := sha1.Sum(data) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// Equal reports element-wise equality.
func (id Identity) Equal(other Identity) bool {
	if len(id) != len(other) {
		return false
	}
	for i := range id {
		if id[i] != other[i] {
			return false
		}
	}
	return true
}

// NaturalKey is the tuple [effective_to, identity...]. Two versions of one
// timeline share the identity and differ in EffectiveTo.
type NaturalKey struct {
	EffectiveTo *time.Time
	Identity    Identity
}

// Equal compares both the end bound and the identity.
func (k NaturalKey) Equal(other NaturalKey) bool {
	return timesEqual(k.EffectiveTo, other.EffectiveTo) && k.Identity.Equal(other.Identity)
}

// String renders the key as "<effective_to>/<identity>" with "active" for an
// open end.
func (k NaturalKey) String() string {
	end := "active"
	if k.EffectiveTo != nil {
		end = k.EffectiveTo.UTC().Format(time.RFC3339Nano)
	}
	return end + "/" + k.Identity.String()
}

// Hash hashes the identity only, so every version of a timeline hashes alike.
func (k NaturalKey) Hash() string {
	return k.Identity.Hash()
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
