// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

/*
Package cache provides a thread-safe LRU cache with TTL expiration.

The API keeps recent recommendation responses here so that repeated
queries for the same product skip the review graph walk and the rating
matrix. Entries expire lazily on Get, and CleanupExpired can be called
periodically to release memory held by entries that are never read again.

# Usage

	c := cache.NewLRU[*recommend.Result](256, 5*time.Minute)
	if res, ok := c.Get(key); ok {
	    return res
	}
	res := compute()
	c.Add(key, res)

# Thread Safety

All methods are safe for concurrent use. Get takes the write lock
because it updates recency.
*/
package cache
