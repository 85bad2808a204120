// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/movierec/internal/breaker"
	"github.com/tomtom215/movierec/internal/metrics"
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

// HTTPConfig configures an HTTPEmbedder.
type HTTPConfig struct {
	// URL is the embed endpoint, for example http://tei:8080/embed.
	URL string

	// Model names the model served at URL, for example
	// "sentence-transformers/all-MiniLM-L6-v2".
	Model string

	// Dimension is the expected vector length. Zero accepts the length of
	// the first response.
	Dimension int

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds a single request.
	Timeout time.Duration

	// RequestsPerSecond and Burst throttle outgoing requests. Zero disables
	// throttling.
	RequestsPerSecond float64
	Burst             int

	// Breaker configures the circuit breaker around the endpoint.
	Breaker breaker.Config
}

type embedRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

// HTTPEmbedder calls a text-embeddings-inference style endpoint:
//
//	POST {"inputs": ["text", ...], "truncate": true}
//	200  [[0.1, ...], ...]
//
// Requests are throttled by a token bucket and guarded by a circuit breaker.
type HTTPEmbedder struct {
	cfg     HTTPConfig
	client  *http.Client
	limiter *rate.Limiter
	cb      *breaker.Breaker[[][]float32]
	dim     atomic.Int64
}

// NewHTTPEmbedder validates cfg and creates the client.
//
//nolint:gocritic // cfg passed by value is acceptable for construction
func NewHTTPEmbedder(cfg HTTPConfig) (*HTTPEmbedder, error) {
	if cfg.URL == "" {
		return nil, errors.New("embedding url must be set")
	}
	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		return nil, fmt.Errorf("embedding url must be http or https, got %q", cfg.URL)
	}
	if cfg.Model == "" {
		cfg.Model = "remote"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker = breaker.DefaultConfig()
	}

	e := &HTTPEmbedder{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		cb:      breaker.New[[][]float32]("embedding-api", cfg.Breaker),
	}
	e.dim.Store(int64(cfg.Dimension))
	return e, nil
}

// Dimension implements Embedder. It is zero until the first response when
// no dimension was configured.
func (e *HTTPEmbedder) Dimension() int {
	return int(e.dim.Load())
}

// Model implements Embedder.
func (e *HTTPEmbedder) Model() string {
	return e.cfg.Model
}

// Embed implements Embedder with one request per call.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	vectors, err := e.cb.Execute(func() ([][]float32, error) {
		return e.post(ctx, texts)
	})
	metrics.RecordEmbeddingRequest(e.cfg.Model, len(texts), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := e.checkShape(vectors, len(texts)); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *HTTPEmbedder) post(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Inputs: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("embed request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	return vectors, nil
}

func (e *HTTPEmbedder) checkShape(vectors [][]float32, want int) error {
	if len(vectors) != want {
		return fmt.Errorf("embed response has %d vectors for %d texts", len(vectors), want)
	}
	dim := int(e.dim.Load())
	if dim == 0 {
		dim = len(vectors[0])
		if !e.dim.CompareAndSwap(0, int64(dim)) {
			dim = int(e.dim.Load())
		}
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("embed response vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return nil
}
