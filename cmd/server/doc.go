// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package main is the entry point of the spatial version store server.

The server keeps versioned print maps and map layers in DuckDB. Every change
to a map or layer is stored as a new version with a half-open validity
interval, so the state of any map at any instant can be queried back.

# Application Architecture

	RootSupervisor ("spatial")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Repair sweeper (temporal.repair_interval > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB with the maps and layers version tables and migrations
 4. Version cache: memory, lru or badger backend
 5. Stores: one temporal store per entity family
 6. Supervisor tree: repair sweeper and HTTP server

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to server.shutdown_timeout, then the version cache
and the database are closed. The database is checkpointed on close.
*/
package main
