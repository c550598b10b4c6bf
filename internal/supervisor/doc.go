// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package supervisor provides process supervision for the Presto server using
suture v4.

# Overview

Long-running components are grouped into two layers:

	RootSupervisor ("presto")
	├── DataSupervisor ("data-layer")
	│   ├── IngestService (when INGEST_PRODUCTS_FILE or INGEST_REVIEWS_FILE is set)
	│   └── StoreStatsService (when metrics are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing import is restarted with backoff inside the data layer while
the API keeps serving recommendations from the rows already committed.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog into the slog adapter of the logging package, so they share the
zerolog output of the rest of the process.

# Service Contract

Services return ctx.Err() on shutdown, a plain error to be restarted, and
suture.ErrDoNotRestart when their work is finished for good.

See the services subpackage for the individual wrappers.
*/
package supervisor
