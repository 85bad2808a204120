// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/features"
)

// TransformationStage composes one description per movie.
type TransformationStage struct {
	Input    string
	Output   string
	Composer *features.Composer
	logger   zerolog.Logger
}

// NewTransformationStage creates the transformation stage. A nil composer
// uses features.NewComposer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTransformationStage(input, output string, composer *features.Composer, logger zerolog.Logger) *TransformationStage {
	if composer == nil {
		composer = features.NewComposer()
	}
	return &TransformationStage{
		Input:    input,
		Output:   output,
		Composer: composer,
		logger:   logger.With().Str("stage", StageTransformation).Logger(),
	}
}

// ID implements Stage.
func (s *TransformationStage) ID() string { return StageTransformation }

// Name implements Stage.
func (s *TransformationStage) Name() string { return "Data Transformation" }

// Run reads Input, composes descriptions and writes Output.
func (s *TransformationStage) Run(ctx context.Context) (int, error) {
	tbl, err := dataset.ReadFile(s.Input)
	if err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}
	s.logger.Info().Int("rows", tbl.Len()).Strs("columns", tbl.Header()).Msg("Loaded ingested data")

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	out, err := s.Composer.Transform(tbl)
	if err != nil {
		return 0, err
	}
	if err := out.WriteFile(s.Output); err != nil {
		return 0, fmt.Errorf("write output: %w", err)
	}

	s.logger.Info().Str("path", s.Output).Int("rows", out.Len()).Msg("Transformed data saved")
	return out.Len(), nil
}
