// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/logging"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MessageResponse is the body of the training endpoint.
type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// MoviesResponse is the body of GET /movies.
type MoviesResponse struct {
	Movies []string `json:"movies"`
	Status string   `json:"status"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status               string `json:"status"`
	ModelLoaded          bool   `json:"model_loaded"`
	DataPathExists       bool   `json:"data_path_exists"`
	EmbeddingsPathExists bool   `json:"embeddings_path_exists"`
}

// RecommendationItem is one ranked result in a recommendation response.
type RecommendationItem struct {
	Title           string  `json:"title"`
	SimilarityScore float64 `json:"similarity_score"`
	PosterPath      string  `json:"poster_path,omitempty"`
}

// RecommendResponse is the body of POST /recommend.
type RecommendResponse struct {
	Movie           string               `json:"movie"`
	Recommendations []RecommendationItem `json:"recommendations"`
	Status          string               `json:"status"`
}

// sanitizeLogValue removes control characters from strings to prevent log
// injection through user-supplied titles.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an ErrorResponse.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &ErrorResponse{Error: message, Status: StatusError})
}
