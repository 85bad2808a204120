// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package middleware provides the HTTP middleware shared by every route of the
recommendation API.

All middleware has the chi signature func(http.Handler) http.Handler and is
installed with Router.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)                    // X-Request-ID and correlation ID
	r.Use(middleware.RequestLogger(2*time.Second)) // one log line per request
	r.Use(middleware.PrometheusMetrics)            // api_requests_total and friends
	r.Use(middleware.Compression)                  // gzip when accepted

RequestID must run before RequestLogger so the log line carries the IDs.
PrometheusMetrics labels requests with the chi route pattern ("/recommend"),
never the raw URL, which keeps label cardinality bounded. Requests that do
not match a route are recorded as "unmatched".

Compression skips WebSocket upgrade requests; the training progress stream
at /ws/training needs the unwrapped connection to hijack.
*/
package middleware
