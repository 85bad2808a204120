// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/features"
	"github.com/tomtom215/movierec/internal/textnorm"
)

// ColumnCleaned holds the normalized description.
const ColumnCleaned = "cleaned_description"

// chunkSize is the number of rows one worker normalizes per task.
const chunkSize = 512

// PreparationStage normalizes the composed descriptions.
type PreparationStage struct {
	Input      string
	Output     string
	Normalizer *textnorm.Normalizer

	// Workers bounds parallel normalization. Zero uses GOMAXPROCS.
	Workers int

	logger zerolog.Logger
}

// NewPreparationStage creates the preparation stage. A nil normalizer uses
// textnorm.Default.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPreparationStage(input, output string, normalizer *textnorm.Normalizer, workers int, logger zerolog.Logger) *PreparationStage {
	if normalizer == nil {
		normalizer = textnorm.Default()
	}
	return &PreparationStage{
		Input:      input,
		Output:     output,
		Normalizer: normalizer,
		Workers:    workers,
		logger:     logger.With().Str("stage", StagePreparation).Logger(),
	}
}

// ID implements Stage.
func (s *PreparationStage) ID() string { return StagePreparation }

// Name implements Stage.
func (s *PreparationStage) Name() string { return "Data Preparation" }

// Run writes Output with cleaned_description in place of concat_description.
func (s *PreparationStage) Run(ctx context.Context) (int, error) {
	tbl, err := dataset.ReadFile(s.Input)
	if err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}
	raw, err := tbl.Column(features.ColumnDescription)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("rows", len(raw)).Msg("Starting text preprocessing")

	cleaned, err := s.normalizeAll(ctx, raw)
	if err != nil {
		return 0, err
	}

	if err := tbl.SetColumn(ColumnCleaned, cleaned); err != nil {
		return 0, err
	}
	if err := tbl.DropColumns(features.ColumnDescription); err != nil {
		return 0, err
	}
	if len(raw) > 0 {
		s.logger.Debug().
			Str("original", truncate(raw[0], 100)).
			Str("cleaned", truncate(cleaned[0], 100)).
			Msg("Sample normalized text")
	}

	if err := tbl.WriteFile(s.Output); err != nil {
		return 0, fmt.Errorf("write output: %w", err)
	}
	s.logger.Info().Str("path", s.Output).Int("rows", tbl.Len()).Msg("Prepared data saved")
	return tbl.Len(), nil
}

// normalizeAll normalizes texts in parallel chunks, preserving order.
func (s *PreparationStage) normalizeAll(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(texts); start += chunkSize {
		end := min(start+chunkSize, len(texts))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = s.Normalizer.Normalize(texts[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
