// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/bootstrap"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/pipeline"
	"github.com/tomtom215/movierec/internal/recommend"
	ws "github.com/tomtom215/movierec/internal/websocket"
)

// RecommendComponents holds the recommendation engine and the pipeline it
// retrains with.
type RecommendComponents struct {
	Engine   *recommend.Engine
	Pipeline *pipeline.Pipeline

	// closeEmbedder releases the embedding cache. Never nil.
	closeEmbedder func() error
}

// Close releases resources held by the components.
func (c *RecommendComponents) Close() error {
	return c.closeEmbedder()
}

// initRecommend builds the pipeline and the engine. Pipeline stage
// transitions and finished retrains are broadcast on hub when it is
// non-nil. No artifacts are loaded here.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, hub *ws.Hub, logger zerolog.Logger) (*RecommendComponents, error) {
	p, closeEmbedder, err := bootstrap.Pipeline(cfg, logger)
	if err != nil {
		return nil, err
	}

	if hub != nil {
		p.AddObserver(pipeline.ObserverFunc(func(e pipeline.Event) {
			hub.BroadcastTrainingProgress(progressFromEvent(e))
		}))
	}

	engine, err := recommend.NewEngine(bootstrap.EngineConfig(cfg), p, logger)
	if err != nil {
		_ = closeEmbedder()
		return nil, fmt.Errorf("create engine: %w", err)
	}

	if hub != nil {
		engine.OnTrained(func(r recommend.TrainResult) {
			hub.BroadcastTrainingCompleted(string(r.Outcome), r.Message, r.Duration.Milliseconds(), r.Generation)
		})
	}

	return &RecommendComponents{
		Engine:        engine,
		Pipeline:      p,
		closeEmbedder: closeEmbedder,
	}, nil
}

// progressFromEvent converts a pipeline event into a websocket payload.
//
//nolint:gocritic // hugeParam: Event is passed by value by the Observer interface
func progressFromEvent(e pipeline.Event) *ws.TrainingProgressData {
	data := &ws.TrainingProgressData{
		RunID:   e.RunID,
		Stage:   e.Name,
		Status:  string(e.Status),
		Index:   e.Index,
		Total:   e.Total,
		Records: e.Records,
	}
	switch e.Status {
	case pipeline.StatusStarted:
		data.Message = fmt.Sprintf(">>>>>> Stage %s started <<<<<<", e.Name)
	case pipeline.StatusCompleted:
		data.Message = fmt.Sprintf(">>>>>> Stage %s completed <<<<<<", e.Name)
	case pipeline.StatusFailed:
		data.Message = fmt.Sprintf("Error in stage %s", e.Name)
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}
	return data
}
