// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package services provides suture.Service wrappers for the long-running parts
of the spatial version store.

Each wrapper implements:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture can name it in log messages.

HTTPServerService runs an *http.Server and shuts it down gracefully when its
context is canceled.

RepairSweeperService runs FixVersions over every timeline of every family on
a fixed interval. Identities are visited through a golang.org/x/time/rate
limiter; each sweep is timed in the temporal_repair_sweep_duration_seconds
histogram and a clean sweep updates
temporal_repair_sweep_last_success_timestamp.
*/
package services
