// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are package-level variables registered with the default
registry through promauto. Callers use the Record* and Set* helpers rather
than touching the collectors directly.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rejected requests (counter)
    Labels: endpoint

Recommendation Metrics:
  - recommend_requests_total: Lookups by outcome (counter)
    Labels: outcome (success, not_found, not_loaded)
  - recommend_duration_seconds: Catalog scan latency (histogram)
  - recommend_store_movies, recommend_store_dimension,
    recommend_store_generation, recommend_store_loaded: Serving store (gauges)
  - recommend_store_reloads_total: Reload attempts (counter)
    Labels: result, reason

Training Metrics:
  - training_runs_total: Retrain runs (counter)
    Labels: outcome (success, warning, error, rejected)
  - training_duration_seconds: Retrain duration (histogram)
  - training_in_progress: 1 while a retrain runs (gauge)
  - training_last_success_timestamp: Unix time of the last success (gauge)
  - pipeline_stage_duration_seconds, pipeline_stage_errors_total,
    pipeline_stage_records: Per-stage pipeline metrics
    Labels: stage

Embedding Metrics:
  - embedding_requests_total: Backend calls (counter)
    Labels: model, result
  - embedding_texts_total: Texts embedded (counter)
    Labels: model
  - embedding_request_duration_seconds: Backend latency (histogram)
    Labels: model

Cache, WebSocket and Circuit Breaker Metrics:
  - cache_hits_total, cache_misses_total
    Labels: cache_type (recommend, embedding)
  - websocket_connections_active, websocket_messages_sent_total,
    websocket_messages_dropped_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_consecutive_failures,
    circuit_breaker_state_transitions_total
    Labels: name (embedding-api, dataset-download)

# Example PromQL Queries

Recommendation p95 latency:

	histogram_quantile(0.95, rate(recommend_duration_seconds_bucket[5m]))

Not-found ratio:

	rate(recommend_requests_total{outcome="not_found"}[5m])
	  / rate(recommend_requests_total[5m])

Failed retrains in the last day:

	increase(training_runs_total{outcome=~"warning|error"}[1d])
*/
package metrics
