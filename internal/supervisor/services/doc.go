// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package services provides suture.Service wrappers for Presto components.

Each wrapper turns a component's own lifecycle (ListenAndServe, a one-shot
import, a polling loop) into suture's context-aware Serve method:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService wraps an *http.Server. Cancellation triggers Shutdown
with a bounded timeout so in-flight recommendations can finish.

IngestService runs the configured startup imports in order and builds the
store indexes afterwards. A failed import returns an error so the
supervisor restarts it; the importer's checkpoint makes the retry resume
where the last committed batch ended, and jobs that already finished are
not repeated. When every job has finished the service returns
suture.ErrDoNotRestart.

StoreStatsService polls the store's row counts and publishes them as
Prometheus gauges.
*/
package services
