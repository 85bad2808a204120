// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/embedding"
	"github.com/tomtom215/movierec/internal/features"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// DefaultBatchSize is the number of descriptions sent per embedding call.
const DefaultBatchSize = 64

// TrainingStage embeds the prepared descriptions and writes the vector
// artifact.
type TrainingStage struct {
	Input     string
	Output    string
	Embedder  embedding.Embedder
	BatchSize int
	logger    zerolog.Logger
}

// NewTrainingStage creates the training stage.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingStage(input, output string, embedder embedding.Embedder, batchSize int, logger zerolog.Logger) *TrainingStage {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &TrainingStage{
		Input:     input,
		Output:    output,
		Embedder:  embedder,
		BatchSize: batchSize,
		logger:    logger.With().Str("stage", StageTraining).Logger(),
	}
}

// ID implements Stage.
func (s *TrainingStage) ID() string { return StageTraining }

// Name implements Stage.
func (s *TrainingStage) Name() string { return "Model Training" }

// Run embeds every cleaned_description and writes Output.
func (s *TrainingStage) Run(ctx context.Context) (int, error) {
	if s.Embedder == nil {
		return 0, errors.New("no embedder configured")
	}

	tbl, err := dataset.ReadFile(s.Input)
	if err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}
	descriptions, err := tbl.Column(ColumnCleaned)
	if err != nil {
		return 0, err
	}
	if len(descriptions) == 0 {
		return 0, errors.New("no movie descriptions to embed")
	}
	titles, err := tbl.Column(features.ColumnTitle)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int("descriptions", len(descriptions)).
		Str("model", s.Embedder.Model()).
		Msg("Generating embeddings for all movies")

	start := time.Now()
	lastLogged := 0
	vectors, err := embedding.EmbedAll(ctx, s.Embedder, descriptions, s.BatchSize, func(done, total int) {
		if done == total || done-lastLogged >= total/10 {
			lastLogged = done
			s.logger.Debug().Int("done", done).Int("total", total).Msg("Embedding progress")
		}
	})
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(start)

	meta, err := storage.WriteVectors(s.Output, vectors, storage.VectorMetadata{
		Model:              s.Embedder.Model(),
		CreatedAt:          time.Now().UTC(),
		TrainingDurationMS: elapsed.Milliseconds(),
		RecordsFingerprint: storage.Fingerprint(titles),
	})
	if err != nil {
		return 0, fmt.Errorf("save embeddings: %w", err)
	}

	s.logger.Info().
		Int("rows", meta.Rows).
		Int("dimension", meta.Dimension).
		Int64("size_bytes", meta.SizeBytes).
		Str("path", s.Output).
		Msg("Embeddings saved successfully")
	return meta.Rows, nil
}
