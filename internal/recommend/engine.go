// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/cache"
	"github.com/tomtom215/movierec/internal/metrics"
)

// Trainer regenerates the artifacts a Store is loaded from.
// It is implemented by the offline pipeline.
type Trainer interface {
	Run(ctx context.Context) error
}

// TrainerFunc adapts a function to the Trainer interface.
type TrainerFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f TrainerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Engine owns the serving Store and coordinates reloads and retrains.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	trainer Trainer
	logger  zerolog.Logger

	// store is replaced wholesale; readers never lock.
	store      atomic.Pointer[Store]
	generation atomic.Int64
	loadedAt   atomic.Int64 // unix nanos of the last swap

	// trainMu serializes retrains. It is never held by readers.
	trainMu  sync.Mutex
	training atomic.Bool

	statusMu sync.RWMutex
	status   TrainingStatus

	listenersMu sync.Mutex
	listeners   []func(TrainResult)

	results *cache.LRU[string, []Recommendation]
}

// NewEngine creates an engine with no store loaded. trainer may be nil, in
// which case Retrain only reloads the artifacts.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, trainer Trainer, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:  cfg,
		trainer: trainer,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.CacheSize > 0 {
		e.results = cache.NewLRU[string, []Recommendation](cfg.CacheSize, cfg.CacheTTL)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Store returns the serving store, or nil when none is loaded.
func (e *Engine) Store() *Store {
	return e.store.Load()
}

// Ready reports whether a store is serving.
func (e *Engine) Ready() bool {
	return e.store.Load() != nil
}

// Reload loads the configured artifacts and swaps them in. On failure the
// serving store is left untouched and the *LoadError is returned.
func (e *Engine) Reload(ctx context.Context) error {
	start := time.Now()

	s, err := Load(ctx, e.config.Paths)
	if err != nil {
		reason := "other"
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			reason = string(loadErr.Reason)
		}
		metrics.RecordStoreReload(reason)
		e.setLastError(err)
		e.logger.Warn().Err(err).Str("reason", reason).Msg("store reload failed, keeping previous store")
		return err
	}

	published := e.publish(s)
	metrics.RecordStoreReload("")

	e.logger.Info().
		Int("movies", published.Len()).
		Int("dimension", published.Dimension()).
		Int64("generation", published.Generation()).
		Dur("duration", time.Since(start)).
		Msg("store loaded")
	return nil
}

// Swap publishes an already validated store. It is used by tests and by
// callers that build a Store in memory. s itself is not modified and may be
// swapped in again; each call publishes it under a new generation.
func (e *Engine) Swap(s *Store) {
	e.publish(s)
}

// publish serves a copy of s stamped with the next generation. Published
// stores are never written to again.
func (e *Engine) publish(s *Store) *Store {
	published := *s
	published.generation = e.generation.Add(1)
	e.store.Store(&published)
	e.loadedAt.Store(time.Now().UnixNano())

	if e.results != nil {
		e.results.Clear()
	}
	metrics.SetStoreInfo(published.Len(), published.Dimension(), published.generation)
	return &published
}

// RetrainFunc runs a retrain reserved by StartRetrain.
type RetrainFunc func(ctx context.Context) (TrainResult, error)

// Retrain runs the trainer and reloads the artifacts it produced.
//
// Only one retrain runs at a time: a concurrent call returns
// ErrTrainingInProgress at once. The serving store is not locked while the
// trainer runs. The returned error is non-nil for every outcome other than
// OutcomeSuccess; the TrainResult is always populated.
func (e *Engine) Retrain(ctx context.Context) (TrainResult, error) {
	run, err := e.StartRetrain()
	if err != nil {
		return TrainResult{}, err
	}
	return run(ctx)
}

// StartRetrain reserves the single retrain slot without running anything.
// It returns ErrTrainingInProgress when a retrain is already reserved or
// running. Otherwise IsTraining reports true from now on and the returned
// function must be called exactly once, typically on another goroutine; the
// slot is released when it returns. Further calls return
// ErrTrainingInProgress.
func (e *Engine) StartRetrain() (RetrainFunc, error) {
	if !e.trainMu.TryLock() {
		metrics.RecordTraining("rejected", 0)
		return nil, ErrTrainingInProgress
	}
	e.training.Store(true)
	metrics.SetTrainingInProgress(true)

	var used atomic.Bool
	return func(ctx context.Context) (TrainResult, error) {
		if !used.CompareAndSwap(false, true) {
			return TrainResult{}, ErrTrainingInProgress
		}
		defer func() {
			e.training.Store(false)
			metrics.SetTrainingInProgress(false)
			e.trainMu.Unlock()
		}()
		return e.train(ctx)
	}, nil
}

// train runs one retrain. The caller holds trainMu.
func (e *Engine) train(ctx context.Context) (TrainResult, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.config.TrainTimeout)
	defer cancel()

	e.logger.Info().Msg("starting model training")

	result := TrainResult{StartedAt: start}
	var err error

	if e.trainer != nil {
		err = e.trainer.Run(ctx)
	}
	switch {
	case err != nil:
		result.Outcome = OutcomeError
		result.Message = "Training failed: " + err.Error()
		err = fmt.Errorf("training failed: %w", err)
	default:
		if loadErr := e.Reload(ctx); loadErr != nil {
			result.Outcome = OutcomeWarning
			result.Message = "Training completed but data could not be loaded"
			err = fmt.Errorf("reload after training: %w", loadErr)
		} else {
			result.Outcome = OutcomeSuccess
			result.Message = "Training successful!"
		}
	}

	result.Duration = time.Since(start)
	if s := e.store.Load(); s != nil {
		result.Generation = s.Generation()
	}
	e.finishTraining(result, err)
	metrics.RecordTraining(string(result.Outcome), result.Duration)

	event := e.logger.Info()
	if err != nil {
		event = e.logger.Error().Err(err)
	}
	event.
		Str("outcome", string(result.Outcome)).
		Int64("duration_ms", result.Duration.Milliseconds()).
		Int64("generation", result.Generation).
		Msg("model training finished")

	e.notifyTrained(result)
	return result, err
}

// OnTrained registers fn to be called after every retrain that ran,
// whatever its outcome. Rejected calls do not notify.
func (e *Engine) OnTrained(fn func(TrainResult)) {
	e.listenersMu.Lock()
	e.listeners = append(e.listeners, fn)
	e.listenersMu.Unlock()
}

func (e *Engine) notifyTrained(result TrainResult) {
	e.listenersMu.Lock()
	listeners := slices.Clone(e.listeners)
	e.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(result)
	}
}

// IsTraining reports whether a retrain is reserved or running.
func (e *Engine) IsTraining() bool {
	return e.training.Load()
}

// Recommend returns up to n movies similar to title from the serving store.
// n is capped at the configured MaxN. It returns ErrNotLoaded when no store
// is serving and *NotFoundError for an unknown title.
func (e *Engine) Recommend(ctx context.Context, title string, n int) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := e.store.Load()
	if s == nil {
		metrics.RecordRecommendation("not_loaded", 0)
		return nil, ErrNotLoaded
	}
	if n > e.config.MaxN {
		n = e.config.MaxN
	}

	key := cacheKey(s.Generation(), title, n)
	if e.results != nil {
		if cached, ok := e.results.Get(key); ok {
			metrics.RecordCacheAccess("recommend", true)
			metrics.RecordRecommendation("success", 0)
			return copyRecommendations(cached), nil
		}
		metrics.RecordCacheAccess("recommend", false)
	}

	start := time.Now()
	recs, err := Recommend(s, title, n)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			metrics.RecordRecommendation("not_found", time.Since(start))
		}
		return nil, err
	}
	metrics.RecordRecommendation("success", time.Since(start))

	if e.results != nil {
		e.results.Add(key, copyRecommendations(recs))
	}
	return recs, nil
}

// Titles returns the sorted titles of the serving store.
func (e *Engine) Titles() ([]string, error) {
	s := e.store.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s.Titles(), nil
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	status := e.status
	e.statusMu.RUnlock()

	status.IsTraining = e.training.Load()
	if s := e.store.Load(); s != nil {
		status.ModelLoaded = true
		status.MovieCount = s.Len()
		status.Dimension = s.Dimension()
		status.Generation = s.Generation()
		status.LoadedAt = time.Unix(0, e.loadedAt.Load())
	}
	return status
}

func (e *Engine) finishTraining(result TrainResult, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.LastTrainedAt = result.StartedAt.Add(result.Duration)
	e.status.LastTrainingDurationMS = result.Duration.Milliseconds()
	e.status.LastOutcome = result.Outcome
	e.status.LastError = ""
	if err != nil {
		e.status.LastError = err.Error()
	}
}

func (e *Engine) setLastError(err error) {
	e.statusMu.Lock()
	e.status.LastError = err.Error()
	e.statusMu.Unlock()
}

func cacheKey(generation int64, title string, n int) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(generation, 10))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(n))
	b.WriteByte('|')
	b.WriteString(titleKey(title))
	return b.String()
}

func copyRecommendations(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out
}
