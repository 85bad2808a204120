// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation lookups",
		},
		[]string{"outcome"}, // "success", "not_found", "not_loaded"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time spent ranking the catalog for one lookup",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	// Store Metrics
	StoreMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_store_movies",
			Help: "Number of movies in the serving store",
		},
	)

	StoreDimension = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_store_dimension",
			Help: "Embedding dimension of the serving store",
		},
	)

	StoreGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_store_generation",
			Help: "Reload counter of the serving store",
		},
	)

	StoreLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_store_loaded",
			Help: "1 when a store is serving, 0 otherwise",
		},
	)

	StoreReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_store_reloads_total",
			Help: "Total number of store reload attempts",
		},
		[]string{"result", "reason"},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of retrain runs by outcome",
		},
		[]string{"outcome"}, // "success", "warning", "error", "rejected"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Duration of retrain runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	TrainingInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "training_in_progress",
			Help: "1 while a retrain is running",
		},
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "training_last_success_timestamp",
			Help: "Unix timestamp of the last successful retrain",
		},
	)

	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of offline pipeline stages",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
		[]string{"stage"},
	)

	PipelineStageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_errors_total",
			Help: "Total number of failed pipeline stages",
		},
		[]string{"stage"},
	)

	PipelineRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_stage_records",
			Help: "Records written by the last run of each stage",
		},
		[]string{"stage"},
	)

	// Embedding Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding backend calls",
		},
		[]string{"model", "result"}, // result: "success", "error"
	)

	EmbeddingTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_texts_total",
			Help: "Total number of texts embedded",
		},
		[]string{"model"},
	)

	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Duration of embedding backend calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommend", "embedding"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent, by message type",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped for slow clients",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by a rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendation records one lookup. Duration is only observed for
// lookups that ranked the catalog.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		RecommendationDuration.Observe(duration.Seconds())
	}
}

// SetStoreInfo publishes the shape of the serving store.
func SetStoreInfo(movies, dimension int, generation int64) {
	StoreMovies.Set(float64(movies))
	StoreDimension.Set(float64(dimension))
	StoreGeneration.Set(float64(generation))
	StoreLoaded.Set(1)
}

// RecordStoreReload records a reload attempt. reason is empty on success.
func RecordStoreReload(reason string) {
	if reason == "" {
		StoreReloads.WithLabelValues("success", "").Inc()
		return
	}
	StoreReloads.WithLabelValues("failure", reason).Inc()
}

// RecordTraining records a finished retrain run.
func RecordTraining(outcome string, duration time.Duration) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	if duration > 0 {
		TrainingDuration.Observe(duration.Seconds())
	}
	if outcome == "success" {
		TrainingLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// SetTrainingInProgress flips the training gauge.
func SetTrainingInProgress(running bool) {
	if running {
		TrainingInProgress.Set(1)
	} else {
		TrainingInProgress.Set(0)
	}
}

// RecordPipelineStage records a completed or failed pipeline stage.
func RecordPipelineStage(stage string, duration time.Duration, records int, err error) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		PipelineStageErrors.WithLabelValues(stage).Inc()
		return
	}
	PipelineRecords.WithLabelValues(stage).Set(float64(records))
}

// RecordEmbeddingRequest records one call to an embedding backend.
func RecordEmbeddingRequest(model string, texts int, duration time.Duration, err error) {
	EmbeddingDuration.WithLabelValues(model).Observe(duration.Seconds())
	if err != nil {
		EmbeddingRequests.WithLabelValues(model, "error").Inc()
		return
	}
	EmbeddingRequests.WithLabelValues(model, "success").Inc()
	EmbeddingTexts.WithLabelValues(model).Add(float64(texts))
}

// RecordCacheAccess records a hit or miss for the named cache.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCacheAccesses records a batch of lookups against the named cache.
func RecordCacheAccesses(cacheType string, hits, misses int) {
	if hits > 0 {
		CacheHits.WithLabelValues(cacheType).Add(float64(hits))
	}
	if misses > 0 {
		CacheMisses.WithLabelValues(cacheType).Add(float64(misses))
	}
}
