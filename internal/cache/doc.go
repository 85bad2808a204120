// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package cache provides a thread-safe, generic LRU cache with TTL expiration.

The recommendation engine uses it to memoise result lists. Keys include the
store generation, so a reloaded store never serves results computed against
the previous one, and stale entries simply age out.

# Usage Example

	c := cache.NewLRU[string, []Recommendation](1024, 10*time.Minute)
	c.Add("3|avatar|12", recs)
	if recs, ok := c.Get("3|avatar|12"); ok {
	    // use recs
	}

# Thread Safety

All methods are safe for concurrent use. Get mutates recency order, so a
single mutex guards every operation.
*/
package cache
