// Reviewsync - Business Review Synchronization and Display
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewsync

/*
Package supervisor runs the long-lived Reviewsync services under suture v4.

The tree has three layers, each with its own failure accounting:

	RootSupervisor ("reviewsync")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService (badger backend only)
	├── SchedulerSupervisor ("scheduler-layer")
	│   └── SyncService (review sync + token refresh loops)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Cancelling the context
passed to Serve shuts every layer down within TreeConfig.ShutdownTimeout;
UnstoppedServiceReport names anything that did not stop.

Supervisor events are logged through sutureslog, which main wires to the
zerolog-backed slog handler from internal/logging.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddSchedulerService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

The service wrappers live in the services subpackage.
*/
package supervisor
