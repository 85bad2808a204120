// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/movierec/internal/recommend"
)

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	Status        string                   `json:"status"`
	Training      recommend.TrainingStatus `json:"training"`
	UptimeSeconds float64                  `json:"uptime_seconds"`
	WSClients     int                      `json:"ws_clients"`
}

// Health reports whether a model is serving and whether its artifacts
// exist on disk. It always answers 200 so liveness probes do not depend on
// training having run.
//
// @Summary Service health
// @Description Reports model state and artifact presence
// @Tags Core
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	paths := h.engine.Config().Paths
	respondJSON(w, http.StatusOK, &HealthResponse{
		Status:               "healthy",
		ModelLoaded:          h.engine.Ready(),
		DataPathExists:       fileExists(paths.Records),
		EmbeddingsPathExists: fileExists(paths.Vectors),
	})
}

// Status returns the engine training status.
//
// @Summary Engine status
// @Description Returns training state, last outcome and the serving store size
// @Tags Core
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /api/v1/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}
	respondJSON(w, http.StatusOK, &StatusResponse{
		Status:        StatusSuccess,
		Training:      h.engine.Status(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		WSClients:     clients,
	})
}
