// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"errors"
	"fmt"
	"time"
)

// Movie is one catalog entry.
type Movie struct {
	// Title is the lookup key. Matching is case-insensitive.
	Title string `json:"title"`

	// Description is the normalized text the vector was computed from.
	Description string `json:"description,omitempty"`

	// PosterPath is the TMDB poster path, empty when unknown.
	PosterPath string `json:"poster_path,omitempty"`
}

// Recommendation is one ranked result.
type Recommendation struct {
	Title           string  `json:"title"`
	SimilarityScore float64 `json:"similarity_score"`
	PosterPath      string  `json:"poster_path,omitempty"`
}

// Outcome classifies a retrain run.
type Outcome string

const (
	// OutcomeSuccess means the pipeline ran and the new store is serving.
	OutcomeSuccess Outcome = "success"

	// OutcomeWarning means the pipeline ran but its artifacts could not be
	// loaded. The previous store, if any, keeps serving.
	OutcomeWarning Outcome = "warning"

	// OutcomeError means the pipeline failed.
	OutcomeError Outcome = "error"
)

// TrainResult is the structured result of Engine.Retrain.
type TrainResult struct {
	Outcome    Outcome       `json:"outcome"`
	Message    string        `json:"message"`
	Duration   time.Duration `json:"duration"`
	Generation int64         `json:"generation"`
	StartedAt  time.Time     `json:"started_at"`
}

// TrainingStatus reports the engine state for the status endpoint.
type TrainingStatus struct {
	// IsTraining indicates whether a retrain is in progress.
	IsTraining bool `json:"is_training"`

	// ModelLoaded is true when a store is serving.
	ModelLoaded bool `json:"model_loaded"`

	// MovieCount and Dimension describe the serving store.
	MovieCount int `json:"movie_count"`
	Dimension  int `json:"dimension"`

	// Generation increments on every successful reload.
	Generation int64 `json:"generation"`

	// LoadedAt is when the serving store was swapped in.
	LoadedAt time.Time `json:"loaded_at,omitempty"`

	// LastTrainedAt is when the last retrain finished, whatever its outcome.
	LastTrainedAt time.Time `json:"last_trained_at,omitempty"`

	// LastTrainingDurationMS is how long the last retrain took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastOutcome is the outcome of the last retrain.
	LastOutcome Outcome `json:"last_outcome,omitempty"`

	// LastError contains the last retrain or reload error, if any.
	LastError string `json:"last_error,omitempty"`
}

var (
	// ErrNotLoaded is returned when no store is serving.
	ErrNotLoaded = errors.New("model not loaded")

	// ErrTrainingInProgress is returned by Retrain while another run is active.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// NotFoundError reports a title that is not in the store.
type NotFoundError struct {
	// Title is the title as the caller gave it.
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Movie '%s' not found in database", e.Title)
}

// LoadReason names the precondition a load failed on.
type LoadReason string

const (
	ReasonMissingFile LoadReason = "missing_file"
	ReasonParse       LoadReason = "parse"
	ReasonMismatch    LoadReason = "mismatch"
)

// LoadError reports why the artifacts could not be turned into a Store.
type LoadError struct {
	Reason LoadReason
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load store (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("load store (%s) %s: %v", e.Reason, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
