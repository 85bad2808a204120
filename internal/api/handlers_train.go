// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
)

// StatusAccepted marks a retrain that was started in the background.
const StatusAccepted = "accepted"

// Train runs the training pipeline and reloads the serving store.
//
// The run is detached from the client connection: a client that hangs up
// does not cancel it, server shutdown does. With async=true the run is
// reserved before the handler answers 202, so a 202 always means this
// request's retrain is the one running. Progress is on /ws/training.
//
// @Summary Retrain the model
// @Description Runs ingestion, transformation, preparation and training, then reloads the artifacts
// @Tags Training
// @Produce json
// @Param async query bool false "Run in the background and return 202"
// @Success 200 {object} MessageResponse "Training successful"
// @Success 202 {object} MessageResponse "Training started"
// @Failure 409 {object} MessageResponse "Training already in progress"
// @Failure 500 {object} MessageResponse "Training failed, or completed but the artifacts could not be loaded"
// @Router /train [get]
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	async, _ := strconv.ParseBool(r.URL.Query().Get("async"))

	if async {
		run, err := h.engine.StartRetrain()
		if err != nil {
			respondTrainingInProgress(w)
			return
		}
		ctx, cancel := h.trainingContext(r.Context())
		go func() {
			defer cancel()
			// The outcome is logged by the engine and broadcast to listeners.
			_, _ = run(ctx)
		}()

		respondJSON(w, http.StatusAccepted, &MessageResponse{
			Message: "Training started",
			Status:  StatusAccepted,
		})
		return
	}

	ctx, cancel := h.trainingContext(r.Context())
	defer cancel()

	result, err := h.engine.Retrain(ctx)
	if errors.Is(err, recommend.ErrTrainingInProgress) {
		respondTrainingInProgress(w)
		return
	}

	switch result.Outcome {
	case recommend.OutcomeSuccess:
		respondJSON(w, http.StatusOK, &MessageResponse{Message: result.Message, Status: StatusSuccess})
	case recommend.OutcomeWarning:
		respondJSON(w, http.StatusInternalServerError, &MessageResponse{Message: result.Message, Status: StatusWarning})
	default:
		message := result.Message
		if message == "" && err != nil {
			message = "Error occurred: " + err.Error()
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Training request failed")
		respondJSON(w, http.StatusInternalServerError, &MessageResponse{Message: message, Status: StatusError})
	}
}

// trainingContext keeps the request's values, so logs carry its IDs, but
// replaces its cancellation with the handler's base context.
func (h *Handler) trainingContext(reqCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(reqCtx))
	stop := context.AfterFunc(h.baseCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func respondTrainingInProgress(w http.ResponseWriter) {
	respondJSON(w, http.StatusConflict, &MessageResponse{
		Message: "Training already in progress",
		Status:  StatusError,
	})
}
