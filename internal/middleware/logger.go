// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/movierec/internal/logging"
)

// DefaultSlowRequestThreshold is when a request is logged at warn level.
const DefaultSlowRequestThreshold = 2 * time.Second

// RequestLogger logs one line per request through the context logger, so
// request and correlation IDs set by RequestID are included. Requests
// slower than slow are logged at warn level, 5xx responses at error level.
// A non-positive slow uses DefaultSlowRequestThreshold.
func RequestLogger(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logger := logging.Ctx(r.Context())
			event := logger.Info()
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Error()
			case elapsed > slow:
				event = logger.Warn().Bool("slow", true)
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}
