// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/metrics"
)

// Stage is one step of the pipeline.
type Stage interface {
	// ID is the short identifier used in metrics, errors and stage
	// selection, e.g. "preparation".
	ID() string

	// Name is the human-readable stage name used in logs.
	Name() string

	// Run executes the stage and reports how many records it produced.
	Run(ctx context.Context) (int, error)
}

// EventStatus is the state a stage moved into.
type EventStatus string

const (
	StatusStarted   EventStatus = "started"
	StatusCompleted EventStatus = "completed"
	StatusFailed    EventStatus = "failed"
)

// Event describes a stage transition.
type Event struct {
	RunID    string
	Stage    string
	Name     string
	Status   EventStatus
	Index    int // 1-based position in the run
	Total    int
	Records  int
	Duration time.Duration
	Err      error
}

// Observer receives stage events. Observe is called synchronously from the
// pipeline goroutine and must not block.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// StageResult reports one completed stage.
type StageResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"duration"`
}

// Result reports a pipeline run. On failure it holds the stages that
// completed before the error.
type Result struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Stages    []StageResult `json:"stages"`
}

// Pipeline runs stages in order.
type Pipeline struct {
	stages    []Stage
	observers []Observer
	logger    zerolog.Logger
}

// New creates a pipeline over stages.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(logger zerolog.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// AddObserver registers o for stage events. It must be called before Run.
func (p *Pipeline) AddObserver(o Observer) {
	p.observers = append(p.observers, o)
}

// Stages returns the stage IDs in run order.
func (p *Pipeline) Stages() []string {
	ids := make([]string, len(p.stages))
	for i, s := range p.stages {
		ids[i] = s.ID()
	}
	return ids
}

// Select returns a pipeline running only the named stages, keeping their
// original order. Unknown IDs are an error.
func (p *Pipeline) Select(ids ...string) (*Pipeline, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.TrimSpace(id)] = true
	}

	var selected []Stage
	for _, s := range p.stages {
		if want[s.ID()] {
			selected = append(selected, s)
			delete(want, s.ID())
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for id := range want {
			unknown = append(unknown, id)
		}
		return nil, fmt.Errorf("unknown stages %v (available: %s)", unknown, strings.Join(p.Stages(), ", "))
	}

	return &Pipeline{stages: selected, observers: p.observers, logger: p.logger}, nil
}

// Run executes every stage and discards the result. It satisfies
// recommend.Trainer.
func (p *Pipeline) Run(ctx context.Context) error {
	_, err := p.Execute(ctx)
	return err
}

// Execute runs the stages in order, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := p.logger.With().Str("run_id", result.RunID).Logger()

	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(result.StartedAt)
			return result, fmt.Errorf("stage %s: %w", stage.ID(), err)
		}

		event := Event{RunID: result.RunID, Stage: stage.ID(), Name: stage.Name(), Index: i + 1, Total: len(p.stages)}
		event.Status = StatusStarted
		p.notify(event)
		logger.Info().Msgf(">>>>>> Stage %s started <<<<<<", stage.Name())

		start := time.Now()
		records, err := stage.Run(ctx)
		elapsed := time.Since(start)
		metrics.RecordPipelineStage(stage.ID(), elapsed, records, err)

		event.Duration = elapsed
		event.Records = records
		if err != nil {
			event.Status = StatusFailed
			event.Err = err
			p.notify(event)
			logger.Error().Err(err).Str("stage", stage.ID()).Msgf("Error in stage %s", stage.Name())
			result.Duration = time.Since(result.StartedAt)
			return result, fmt.Errorf("stage %s: %w", stage.ID(), err)
		}

		event.Status = StatusCompleted
		p.notify(event)
		logger.Info().
			Int("records", records).
			Dur("duration", elapsed).
			Msgf(">>>>>> Stage %s completed <<<<<<", stage.Name())

		result.Stages = append(result.Stages, StageResult{
			ID:       stage.ID(),
			Name:     stage.Name(),
			Records:  records,
			Duration: elapsed,
		})
	}

	result.Duration = time.Since(result.StartedAt)
	return result, nil
}

func (p *Pipeline) notify(e Event) {
	for _, o := range p.observers {
		o.Observe(e)
	}
}
