// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api provides the HTTP interface of the spatial version store.

The interface is a thin JSON layer over the temporal stores of each entity
family. Every family is served under its own prefix with the same routes:

	GET  /api/v1/maps                  active version of every map
	GET  /api/v1/maps/{id}?from=&to=   versions selected by from/to
	POST /api/v1/maps/{id}             save a new version
	POST /api/v1/maps/{id}/end         close the active version
	POST /api/v1/maps/{id}/repair      run FixVersions on the timeline

and likewise under /api/v1/layers. POST /api/v1/repair sweeps every family.

The from/to query parameters use the GetVersion vocabulary:

	(none)             current version
	from=all           every version
	from=oldest        earliest version
	from=newest        latest-starting version
	from=T             version in force at T
	from=T&to=next     first version starting after T
	from=T&to=U        versions spanning [T, U]

Errors map onto status codes: an audit collision is 409 Conflict, a missing
version 404, any other audit error 400 and a payload that fails validation
422. Responses use the APIResponse envelope.

Writes are attributed to the X-Actor request header; requests without it are
attributed to the configured default actor.

GET /health reports database connectivity and version cache counters. GET
/metrics exposes the Prometheus registry.

The OpenAPI document is built from the handler annotations with
swag init -g cmd/server/docs.go and served under /swagger/.
*/
package api
