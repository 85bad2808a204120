// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/recommend"
)

// Retrainer is satisfied by *recommend.Engine.
type Retrainer interface {
	Retrain(ctx context.Context) (recommend.TrainResult, error)
	Ready() bool
}

// RetrainConfig controls when the scheduler retrains.
type RetrainConfig struct {
	// OnStartup trains once when the service starts and no store is
	// serving yet.
	OnStartup bool

	// Interval between scheduled retrains. Zero disables the schedule.
	Interval time.Duration
}

// RetrainService runs the training pipeline on a schedule.
//
// A failed run is logged and does not fail the service: the engine keeps
// serving its previous store and the next tick tries again. A tick that
// finds a manual retrain already running is skipped.
type RetrainService struct {
	retrainer Retrainer
	config    RetrainConfig
	logger    zerolog.Logger
	name      string
}

// NewRetrainService creates the scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(retrainer Retrainer, config RetrainConfig, logger zerolog.Logger) *RetrainService {
	return &RetrainService{
		retrainer: retrainer,
		config:    config,
		logger:    logger.With().Str("service", "retrain-scheduler").Logger(),
		name:      "retrain-scheduler",
	}
}

// Serve implements suture.Service. It blocks until ctx is canceled.
func (r *RetrainService) Serve(ctx context.Context) error {
	if r.config.OnStartup && !r.retrainer.Ready() {
		r.logger.Info().Msg("no model loaded, training on startup")
		r.run(ctx, "startup")
	}

	if r.config.Interval <= 0 {
		r.logger.Debug().Msg("scheduled retraining disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	r.logger.Info().Dur("interval", r.config.Interval).Msg("scheduled retraining enabled")

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.run(ctx, "schedule")
		}
	}
}

func (r *RetrainService) run(ctx context.Context, trigger string) {
	result, err := r.retrainer.Retrain(ctx)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		r.logger.Info().Str("trigger", trigger).Msg("retrain skipped, training already in progress")
	case err != nil:
		r.logger.Warn().Err(err).
			Str("trigger", trigger).
			Str("outcome", string(result.Outcome)).
			Msg("retrain did not succeed")
	default:
		r.logger.Info().
			Str("trigger", trigger).
			Int64("generation", result.Generation).
			Dur("duration", result.Duration).
			Msg("retrain completed")
	}
}

// String implements fmt.Stringer.
func (r *RetrainService) String() string {
	return r.name
}
