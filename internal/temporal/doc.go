// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package temporal implements bitemporal version timelines for audited
// entities.
//
// Every entity embeds a Record carrying the half-open validity interval
// [EffectiveFrom, EffectiveTo) of one version. Versions sharing a natural-key
// identity form a timeline; at any instant at most one of them is in force,
// and at most one is active (EffectiveTo == nil).
//
// A Store owns every transition of a timeline:
//
//	store := temporal.NewStore[*spatial.Map]("map", repo, versionCache)
//	m := spatial.NewMap("perth-fires", "Perth fires")
//	if err := store.SaveVersion(ctx, m, temporal.SaveOptions{Actor: "planner"}); err != nil {
//	    if errors.Is(err, temporal.ErrAuditCollision) {
//	        // identical to the active version, or a concurrent writer won
//	    }
//	}
//	cur, err := store.Current(ctx, m)
//
// Versions are never deleted. A superseded version is only ever modified to
// close it. Concurrent writers in other processes are serialised solely by the
// storage unique constraints on (effective_from, identity) and
// (effective_to, identity); a lost race surfaces as ErrAuditCollision.
//
// Timelines corrupted by earlier crashes or races are repaired by
// FixVersions, which retries a bounded number of times and reports versions it
// could not fix instead of looping.
package temporal
