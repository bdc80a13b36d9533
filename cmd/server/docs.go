// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

// @title Spatial Version Store API
// @version 1.0
// @description Versioned print maps and map layers. Every change is stored as a new version
// @description with a half-open validity interval [effective_from, effective_to).
// @description
// @description ## Actors
// @description
// @description Writes are attributed to the `X-Actor` header, or the configured default actor.
// @description
// @description ## Error Responses
// @description
// @description 409 for identical versions and unique constraint collisions, 404 when no version
// @description matches a query, 400 for other audit errors and 422 for validation failures.
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3857
// @BasePath /
// @schemes http https
//
// @tag.name Versions
// @tag.description Read, save and end map and layer versions
//
// @tag.name Repair
// @tag.description Detect and repair overlapping timelines
//
// @tag.name Core
// @tag.description Health checks
