// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package embedding

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
)

func l2(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestNormalizeL2(t *testing.T) {
	t.Parallel()

	v := []float32{3, 4}
	NormalizeL2(v)
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("NormalizeL2 = %v, want [0.6 0.8]", v)
	}

	zero := []float32{0, 0, 0}
	NormalizeL2(zero)
	if !reflect.DeepEqual(zero, []float32{0, 0, 0}) {
		t.Errorf("zero vector changed: %v", zero)
	}
}

func TestHashingEmbedder(t *testing.T) {
	t.Parallel()

	h := NewHashingEmbedder(64, true)
	if h.Dimension() != 64 || h.Model() != "hashing-bigram-64" {
		t.Errorf("Dimension=%d Model=%s", h.Dimension(), h.Model())
	}
	if NewHashingEmbedder(0, false).Dimension() != DefaultHashingDimension {
		t.Error("default dimension not applied")
	}

	texts := []string{
		"space travel wormhole astronaut",
		"space travel wormhole astronaut",
		"astronaut space wormhole mission",
		"toy cowboy friendship",
		"",
	}
	vectors, err := h.Embed(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("len = %d", len(vectors))
	}

	if !reflect.DeepEqual(vectors[0], vectors[1]) {
		t.Error("embedding is not deterministic")
	}
	for i, v := range vectors[:4] {
		if len(v) != 64 || math.Abs(l2(v)-1) > 1e-5 {
			t.Errorf("vector %d: len=%d norm=%v", i, len(v), l2(v))
		}
	}
	if l2(vectors[4]) != 0 {
		t.Error("empty text must embed to the zero vector")
	}

	related := dot(vectors[0], vectors[2])
	unrelated := dot(vectors[0], vectors[3])
	if related <= unrelated {
		t.Errorf("shared vocabulary should score higher: related=%v unrelated=%v", related, unrelated)
	}
}

func TestHashingEmbedderCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHashingEmbedder(8, false).Embed(ctx, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// countingEmbedder records how many texts reach it.
type countingEmbedder struct {
	inner Embedder
	texts atomic.Int64
	calls atomic.Int64
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls.Add(1)
	c.texts.Add(int64(len(texts)))
	return c.inner.Embed(ctx, texts)
}
func (c *countingEmbedder) Dimension() int { return c.inner.Dimension() }
func (c *countingEmbedder) Model() string  { return c.inner.Model() }

func TestEmbedAllBatches(t *testing.T) {
	t.Parallel()

	counter := &countingEmbedder{inner: NewHashingEmbedder(16, false)}
	texts := []string{"a", "b", "c", "d", "e"}

	var progress []int
	vectors, err := EmbedAll(context.Background(), counter, texts, 2, func(done, total int) {
		if total != 5 {
			t.Errorf("total = %d", total)
		}
		progress = append(progress, done)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 5 || counter.calls.Load() != 3 {
		t.Errorf("vectors=%d calls=%d", len(vectors), counter.calls.Load())
	}
	if !reflect.DeepEqual(progress, []int{2, 4, 5}) {
		t.Errorf("progress = %v", progress)
	}

	single := &countingEmbedder{inner: NewHashingEmbedder(16, false)}
	if _, err := EmbedAll(context.Background(), single, texts, 0, nil); err != nil {
		t.Fatal(err)
	}
	if single.calls.Load() != 1 {
		t.Errorf("batchSize 0 made %d calls, want 1", single.calls.Load())
	}
}

func TestHTTPEmbedder(t *testing.T) {
	t.Parallel()

	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out := make([][]float32, len(req.Inputs))
		for i := range req.Inputs {
			out[i] = []float32{float32(i), 1, 0}
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPConfig{URL: srv.URL, Model: "mini", APIKey: "secret", RequestsPerSecond: 100, Burst: 1})
	if err != nil {
		t.Fatal(err)
	}
	if e.Dimension() != 0 {
		t.Errorf("Dimension before first call = %d", e.Dimension())
	}

	vectors, err := e.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !reflect.DeepEqual(vectors, [][]float32{{0, 1, 0}, {1, 1, 0}}) {
		t.Errorf("vectors = %v", vectors)
	}
	if e.Dimension() != 3 || e.Model() != "mini" {
		t.Errorf("Dimension=%d Model=%s", e.Dimension(), e.Model())
	}
	if auth, _ := gotAuth.Load().(string); auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}

	empty, err := e.Embed(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty input: %v %v", empty, err)
	}
}

func TestHTTPEmbedderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		dim     int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "wrong vector count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[[1,2]]`))
			},
		},
		{
			name: "dimension mismatch",
			dim:  4,
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[[1,2],[3,4]]`))
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			e, err := NewHTTPEmbedder(HTTPConfig{URL: srv.URL, Dimension: tt.dim})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := e.Embed(context.Background(), []string{"a", "b"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewHTTPEmbedderValidation(t *testing.T) {
	t.Parallel()

	for _, url := range []string{"", "ftp://example.com/embed", "localhost:8080"} {
		if _, err := NewHTTPEmbedder(HTTPConfig{URL: url}); err == nil {
			t.Errorf("URL %q: expected error", url)
		}
	}
}

func TestCachedEmbedder(t *testing.T) {
	t.Parallel()

	counter := &countingEmbedder{inner: NewHashingEmbedder(32, false)}
	cached, err := OpenCachedEmbedder(counter, CacheConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenCachedEmbedder() error = %v", err)
	}
	defer func() { _ = cached.Close() }()

	ctx := context.Background()
	first, err := cached.Embed(ctx, []string{"alpha beta", "gamma"})
	if err != nil {
		t.Fatal(err)
	}
	if counter.texts.Load() != 2 {
		t.Errorf("first call embedded %d texts, want 2", counter.texts.Load())
	}

	second, err := cached.Embed(ctx, []string{"gamma", "delta", "alpha beta"})
	if err != nil {
		t.Fatal(err)
	}
	if counter.texts.Load() != 3 {
		t.Errorf("only the new text should reach the embedder, total = %d", counter.texts.Load())
	}
	if !reflect.DeepEqual(second[0], first[1]) || !reflect.DeepEqual(second[2], first[0]) {
		t.Error("cached vectors differ from the originals or are out of order")
	}
	if cached.Dimension() != 32 || cached.Model() != "hashing-32" {
		t.Errorf("Dimension=%d Model=%s", cached.Dimension(), cached.Model())
	}
}

func TestCacheKeySeparatesModels(t *testing.T) {
	t.Parallel()

	a := cacheKey("model-a", "text")
	b := cacheKey("model-b", "text")
	if reflect.DeepEqual(a, b) {
		t.Error("different models must not share cache keys")
	}
	if !reflect.DeepEqual(a, cacheKey("model-a", "text")) {
		t.Error("cache key is not stable")
	}
	if string(a[:len(cacheKeyPrefix)]) != cacheKeyPrefix || len(a) != len(cacheKeyPrefix)+32 {
		t.Errorf("unexpected key layout %x", a)
	}
}

func TestVectorCodec(t *testing.T) {
	t.Parallel()

	v := []float32{0, -1.5, 3.25, float32(math.Inf(1))}
	got, err := decodeVector(encodeVector(v))
	if err != nil || !reflect.DeepEqual(got, v) {
		t.Errorf("decode(encode(v)) = %v, %v", got, err)
	}
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated vector")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	e, closeFn, err := New(Config{Dimension: 16})
	if err != nil {
		t.Fatal(err)
	}
	if e.Model() != "hashing-16" {
		t.Errorf("Model = %s", e.Model())
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}

	cachedE, closeFn, err := New(Config{Provider: ProviderHashing, Dimension: 8, CacheEnabled: true, Cache: CacheConfig{InMemory: true}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cachedE.(*CachedEmbedder); !ok {
		t.Errorf("expected *CachedEmbedder, got %T", cachedE)
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}

	if _, _, err := New(Config{Provider: "word2vec"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, _, err := New(Config{Provider: ProviderHTTP}); err == nil {
		t.Error("expected error for http provider without url")
	}
}
