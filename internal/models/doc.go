// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package models defines the HTTP response shapes shared by the API handlers.

Every endpoint answers with an APIResponse envelope: Status is "success"
or "error", Data holds the payload, and Error carries a code from the
Code* constants when the request failed. Domain types (products, reviews,
recommendations) live in the recommend package and are embedded in Data
as-is.
*/
package models
