// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

//nolint:gochecknoinits // keep handler error logs out of test output
func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

var (
	testTitles  = []string{"Gamma", "Alpha", "Beta"}
	testPosters = []string{"/gamma.jpg", "/alpha.jpg", ""}
	testVectors = [][]float32{{0, 1}, {1, 0}, {0.9, 0.1}}
)

// writeTestArtifacts writes records, vectors and posters into dir and
// returns their paths.
func writeTestArtifacts(t *testing.T, dir string) recommend.Paths {
	t.Helper()

	rows := make([][]string, len(testTitles))
	posterRows := make([][]string, len(testTitles))
	for i, title := range testTitles {
		rows[i] = []string{title, "about " + title}
		posterRows[i] = []string{title, testPosters[i]}
	}

	records, err := dataset.NewTable([]string{recommend.ColumnTitle, recommend.ColumnDescription}, rows)
	if err != nil {
		t.Fatal(err)
	}
	posters, err := dataset.NewTable([]string{recommend.ColumnTitle, recommend.ColumnPosterPath}, posterRows)
	if err != nil {
		t.Fatal(err)
	}

	paths := recommend.Paths{
		Records: filepath.Join(dir, "data_preparation", "prepared.csv"),
		Vectors: filepath.Join(dir, "model_trainer", "movie_embeddings.gob.gz"),
		Posters: filepath.Join(dir, "data_ingestion", "final.csv"),
	}
	if err := records.WriteFile(paths.Records); err != nil {
		t.Fatal(err)
	}
	if err := posters.WriteFile(paths.Posters); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.WriteVectors(paths.Vectors, testVectors, storage.VectorMetadata{Model: "test"}); err != nil {
		t.Fatal(err)
	}
	return paths
}

// emptyPaths returns artifact paths under dir that do not exist yet.
func emptyPaths(dir string) recommend.Paths {
	return recommend.Paths{
		Records: filepath.Join(dir, "data_preparation", "prepared.csv"),
		Vectors: filepath.Join(dir, "model_trainer", "movie_embeddings.gob.gz"),
		Posters: filepath.Join(dir, "data_ingestion", "final.csv"),
	}
}

func newEngine(t *testing.T, paths recommend.Paths, trainer recommend.Trainer) *recommend.Engine {
	t.Helper()
	cfg := recommend.DefaultConfig()
	cfg.Paths = paths
	cfg.MaxN = 20
	engine, err := recommend.NewEngine(cfg, trainer, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// newLoadedHandler returns a handler whose engine serves the test catalog.
func newLoadedHandler(t *testing.T) *Handler {
	t.Helper()
	engine := newEngine(t, writeTestArtifacts(t, t.TempDir()), nil)
	if err := engine.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return NewHandler(engine, HandlerConfig{})
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestMovies(t *testing.T) {
	t.Parallel()

	t.Run("not loaded", func(t *testing.T) {
		t.Parallel()
		h := NewHandler(newEngine(t, emptyPaths(t.TempDir()), nil), HandlerConfig{})

		rec := httptest.NewRecorder()
		h.Movies(rec, httptest.NewRequest(http.MethodGet, "/movies", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		body := decode[ErrorResponse](t, rec)
		if body.Error != "Data not loaded" || body.Status != StatusError {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("sorted titles", func(t *testing.T) {
		t.Parallel()
		h := newLoadedHandler(t)

		rec := httptest.NewRecorder()
		h.Movies(rec, httptest.NewRequest(http.MethodGet, "/movies", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decode[MoviesResponse](t, rec)
		if want := []string{"Alpha", "Beta", "Gamma"}; !reflect.DeepEqual(body.Movies, want) {
			t.Errorf("movies = %v, want %v", body.Movies, want)
		}
		if body.Status != StatusSuccess {
			t.Errorf("status = %q", body.Status)
		}
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler func(t *testing.T) *Handler
		want    HealthResponse
	}{
		{
			name: "no artifacts",
			handler: func(t *testing.T) *Handler {
				return NewHandler(newEngine(t, emptyPaths(t.TempDir()), nil), HandlerConfig{})
			},
			want: HealthResponse{Status: "healthy"},
		},
		{
			name: "artifacts present but not loaded",
			handler: func(t *testing.T) *Handler {
				return NewHandler(newEngine(t, writeTestArtifacts(t, t.TempDir()), nil), HandlerConfig{})
			},
			want: HealthResponse{Status: "healthy", DataPathExists: true, EmbeddingsPathExists: true},
		},
		{
			name:    "loaded",
			handler: newLoadedHandler,
			want:    HealthResponse{Status: "healthy", ModelLoaded: true, DataPathExists: true, EmbeddingsPathExists: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.handler(t).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := decode[HealthResponse](t, rec); got != tt.want {
				t.Errorf("health = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	h := newLoadedHandler(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitles []string
		wantError  string
	}{
		{
			name:       "default n returns every other movie",
			query:      "movie_title=Alpha",
			wantStatus: http.StatusOK,
			wantTitles: []string{"Beta", "Gamma"},
		},
		{
			name:       "case insensitive with n",
			query:      "movie_title=aLPHA&n_recommendations=1",
			wantStatus: http.StatusOK,
			wantTitles: []string{"Beta"},
		},
		{
			name:       "zero n is empty",
			query:      "movie_title=Alpha&n_recommendations=0",
			wantStatus: http.StatusOK,
			wantTitles: []string{},
		},
		{
			name:       "unknown title",
			query:      "movie_title=Delta",
			wantStatus: http.StatusNotFound,
			wantError:  "Movie 'Delta' not found in database",
		},
		{
			name:       "missing title",
			query:      "n_recommendations=3",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank title",
			query:      "movie_title=%20%20",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non integer n",
			query:      "movie_title=Alpha&n_recommendations=many",
			wantStatus: http.StatusBadRequest,
			wantError:  "n_recommendations must be an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.Recommend(rec, httptest.NewRequest(http.MethodPost, "/recommend?"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus != http.StatusOK {
				body := decode[ErrorResponse](t, rec)
				if body.Status != StatusError || body.Error == "" {
					t.Errorf("error body = %+v", body)
				}
				if tt.wantError != "" && body.Error != tt.wantError {
					t.Errorf("error = %q, want %q", body.Error, tt.wantError)
				}
				return
			}

			body := decode[RecommendResponse](t, rec)
			titles := make([]string, len(body.Recommendations))
			for i, r := range body.Recommendations {
				titles[i] = r.Title
			}
			if !reflect.DeepEqual(titles, tt.wantTitles) {
				t.Errorf("titles = %v, want %v", titles, tt.wantTitles)
			}
		})
	}
}

func TestRecommendScoresAndPosters(t *testing.T) {
	t.Parallel()

	h := newLoadedHandler(t)
	rec := httptest.NewRecorder()
	h.Recommend(rec, httptest.NewRequest(http.MethodPost, "/recommend?movie_title=Alpha", nil))

	body := decode[RecommendResponse](t, rec)
	if body.Movie != "Alpha" || body.Status != StatusSuccess {
		t.Fatalf("body = %+v", body)
	}
	want := []RecommendationItem{
		{Title: "Beta", SimilarityScore: 0.994},
		{Title: "Gamma", SimilarityScore: 0, PosterPath: "/gamma.jpg"},
	}
	if !reflect.DeepEqual(body.Recommendations, want) {
		t.Errorf("recommendations = %+v, want %+v", body.Recommendations, want)
	}
}

func TestRecommendNotLoaded(t *testing.T) {
	t.Parallel()

	h := NewHandler(newEngine(t, emptyPaths(t.TempDir()), nil), HandlerConfig{})
	rec := httptest.NewRecorder()
	h.Recommend(rec, httptest.NewRequest(http.MethodPost, "/recommend?movie_title=Alpha", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if body := decode[ErrorResponse](t, rec); body.Error != notLoadedMessage {
		t.Errorf("error = %q", body.Error)
	}
}

func TestTrain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		trainer    func(dir string, t *testing.T) recommend.Trainer
		wantStatus int
		wantBody   MessageResponse
		wantLoaded bool
	}{
		{
			name: "success",
			trainer: func(dir string, t *testing.T) recommend.Trainer {
				return recommend.TrainerFunc(func(ctx context.Context) error {
					writeTestArtifacts(t, dir)
					return nil
				})
			},
			wantStatus: http.StatusOK,
			wantBody:   MessageResponse{Message: "Training successful!", Status: StatusSuccess},
			wantLoaded: true,
		},
		{
			name: "artifacts not loadable",
			trainer: func(dir string, t *testing.T) recommend.Trainer {
				return recommend.TrainerFunc(func(ctx context.Context) error { return nil })
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   MessageResponse{Message: "Training completed but data could not be loaded", Status: StatusWarning},
		},
		{
			name: "pipeline failure",
			trainer: func(dir string, t *testing.T) recommend.Trainer {
				return recommend.TrainerFunc(func(ctx context.Context) error {
					return errors.New("stage ingestion: unexpected status 404")
				})
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   MessageResponse{Message: "Training failed: stage ingestion: unexpected status 404", Status: StatusError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			engine := newEngine(t, emptyPaths(dir), tt.trainer(dir, t))
			h := NewHandler(engine, HandlerConfig{})

			rec := httptest.NewRecorder()
			h.Train(rec, httptest.NewRequest(http.MethodGet, "/train", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decode[MessageResponse](t, rec); got != tt.wantBody {
				t.Errorf("body = %+v, want %+v", got, tt.wantBody)
			}
			if engine.Ready() != tt.wantLoaded {
				t.Errorf("Ready() = %v, want %v", engine.Ready(), tt.wantLoaded)
			}
		})
	}
}

func TestTrainConflictAndAsync(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	trainer := recommend.TrainerFunc(func(ctx context.Context) error {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		writeTestArtifacts(t, dir)
		return nil
	})
	engine := newEngine(t, emptyPaths(dir), trainer)
	h := NewHandler(engine, HandlerConfig{})

	rec := httptest.NewRecorder()
	h.Train(rec, httptest.NewRequest(http.MethodGet, "/train?async=true", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("async status = %d, want 202", rec.Code)
	}
	if body := decode[MessageResponse](t, rec); body.Status != StatusAccepted {
		t.Errorf("async body = %+v", body)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("background training did not start")
	}

	for _, target := range []string{"/train", "/train?async=true"} {
		rec := httptest.NewRecorder()
		h.Train(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusConflict {
			t.Errorf("%s while training: status = %d, want 409", target, rec.Code)
		}
	}

	close(release)

	deadline := time.Now().Add(5 * time.Second)
	for !engine.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("background training did not load the store")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status := engine.Status(); status.LastOutcome != recommend.OutcomeSuccess {
		t.Errorf("LastOutcome = %s", status.LastOutcome)
	}
}

func TestTrainAsyncBackToBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32
	release := make(chan struct{})
	trainer := recommend.TrainerFunc(func(ctx context.Context) error {
		calls.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		writeTestArtifacts(t, dir)
		return nil
	})
	engine := newEngine(t, emptyPaths(dir), trainer)
	h := NewHandler(engine, HandlerConfig{})

	// No wait between the requests: the second one may arrive before the
	// first run's goroutine has been scheduled.
	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.Train(rec, httptest.NewRequest(http.MethodGet, "/train?async=true", nil))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusAccepted || codes[1] != http.StatusConflict {
		t.Errorf("status codes = %v, want [202 409]", codes)
	}

	close(release)
	deadline := time.Now().Add(5 * time.Second)
	for engine.IsTraining() || !engine.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("accepted retrain did not finish")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("trainer ran %d times, want 1", got)
	}
}

func TestTrainSurvivesClientDisconnect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	trainer := recommend.TrainerFunc(func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return err
		}
		writeTestArtifacts(t, dir)
		return nil
	})
	engine := newEngine(t, emptyPaths(dir), trainer)
	h := NewHandler(engine, HandlerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/train", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Train(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestTrainCancelledByBaseContext(t *testing.T) {
	t.Parallel()

	base, cancel := context.WithCancel(context.Background())
	trainer := recommend.TrainerFunc(func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	engine := newEngine(t, emptyPaths(t.TempDir()), trainer)
	h := NewHandler(engine, HandlerConfig{BaseContext: base})

	rec := httptest.NewRecorder()
	h.Train(rec, httptest.NewRequest(http.MethodGet, "/train", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decode[MessageResponse](t, rec); body.Status != StatusError {
		t.Errorf("body = %+v", body)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	h := newLoadedHandler(t)
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[StatusResponse](t, rec)
	if !body.Training.ModelLoaded || body.Training.MovieCount != 3 || body.Training.Dimension != 2 {
		t.Errorf("training = %+v", body.Training)
	}
	if body.Training.IsTraining {
		t.Error("IsTraining should be false")
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{"no origin header", nil, "", true},
		{"listed origin", []string{"https://movies.example"}, "https://movies.example", true},
		{"wildcard", []string{"*"}, "https://any.example", true},
		{"unlisted origin", []string{"https://movies.example"}, "https://evil.example", false},
		{"no origins configured", nil, "https://movies.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := &Handler{corsOrigins: tt.origins}
			req := httptest.NewRequest(http.MethodGet, "/ws/training", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("Alien\n\x1b[31m"); got != `Alien\x0a\x1b[31m` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
