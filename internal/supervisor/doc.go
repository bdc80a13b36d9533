// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package supervisor provides process supervision for the spatial version
store using suture v4.

# Overview

Services are organized into two layers:

	RootSupervisor ("spatial")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── RepairSweeperService (if temporal.repair_interval > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure decay and backoff.
Supervisor events are logged through sutureslog into the zerolog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{})
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(services.NewRepairSweeperService(stores, time.Hour, 50))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

The service wrappers live in the services subpackage.
*/
package supervisor
