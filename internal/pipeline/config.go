// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package pipeline

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/embedding"
	"github.com/tomtom215/movierec/internal/features"
	"github.com/tomtom215/movierec/internal/textnorm"
)

// Stage IDs in run order.
const (
	StageIngestion      = "ingestion"
	StageTransformation = "transformation"
	StagePreparation    = "preparation"
	StageTraining       = "training"
)

// Config locates every artifact and tunes the stages.
type Config struct {
	Ingestion IngestionConfig

	TransformedFile string
	PreparedFile    string
	VectorsFile     string

	// Composer builds descriptions; nil uses features.NewComposer.
	Composer *features.Composer

	// Workers bounds parallel normalization; zero uses GOMAXPROCS.
	Workers int

	// BatchSize is the number of texts per embedding call.
	BatchSize int
}

// DefaultConfig lays the artifacts out under root:
//
//	root/data_ingestion/final.csv
//	root/data_transformation/transformed.csv
//	root/data_preparation/prepared.csv
//	root/model_trainer/movie_embeddings.gob.gz
func DefaultConfig(root string) Config {
	ingestDir := filepath.Join(root, "data_ingestion")
	return Config{
		Ingestion: IngestionConfig{
			LocalFile: filepath.Join(ingestDir, "data.zip"),
			UnzipDir:  ingestDir,
			FinalFile: filepath.Join(ingestDir, "final.csv"),
		},
		TransformedFile: filepath.Join(root, "data_transformation", "transformed.csv"),
		PreparedFile:    filepath.Join(root, "data_preparation", "prepared.csv"),
		VectorsFile:     filepath.Join(root, "model_trainer", "movie_embeddings.gob.gz"),
		BatchSize:       DefaultBatchSize,
	}
}

// Build assembles the four stages into a pipeline.
//
//nolint:gocritic // cfg and logger passed by value are acceptable for construction
func Build(cfg Config, embedder embedding.Embedder, logger zerolog.Logger) *Pipeline {
	return New(logger,
		NewIngestionStage(cfg.Ingestion, logger),
		NewTransformationStage(cfg.Ingestion.FinalFile, cfg.TransformedFile, cfg.Composer, logger),
		NewPreparationStage(cfg.TransformedFile, cfg.PreparedFile, textnorm.Default(), cfg.Workers, logger),
		NewTrainingStage(cfg.PreparedFile, cfg.VectorsFile, embedder, cfg.BatchSize, logger),
	)
}
