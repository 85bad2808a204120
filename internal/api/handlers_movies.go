// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/validation"
)

const notLoadedMessage = "Model not loaded. Please train the model first using /train endpoint"

// RecommendRequest holds the validated query parameters of POST /recommend.
type RecommendRequest struct {
	MovieTitle string `query:"movie_title" validate:"notblank,max=512"`
	N          int    `query:"n_recommendations"`
}

// Movies returns every title in the serving store, sorted.
//
// @Summary List movies
// @Description Returns all titles of the loaded catalog in ascending order
// @Tags Movies
// @Produce json
// @Success 200 {object} MoviesResponse
// @Failure 503 {object} ErrorResponse "Data not loaded"
// @Router /movies [get]
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	titles, err := h.engine.Titles()
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Data not loaded")
		return
	}
	respondJSON(w, http.StatusOK, &MoviesResponse{Movies: titles, Status: StatusSuccess})
}

// Recommend returns the movies most similar to movie_title.
//
// @Summary Recommend similar movies
// @Description Ranks the catalog by cosine similarity to the given title. The title itself is excluded.
// @Tags Movies
// @Produce json
// @Param movie_title query string true "Title to find similar movies for (case-insensitive)"
// @Param n_recommendations query int false "Number of results, capped by the server maximum" default(12)
// @Success 200 {object} RecommendResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 404 {object} ErrorResponse "Movie not found"
// @Failure 503 {object} ErrorResponse "Model not loaded"
// @Router /recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRecommendRequest(w, r)
	if !ok {
		return
	}

	recs, err := h.engine.Recommend(r.Context(), req.MovieTitle, req.N)
	if err != nil {
		var notFound *recommend.NotFoundError
		switch {
		case errors.Is(err, recommend.ErrNotLoaded):
			respondError(w, http.StatusServiceUnavailable, notLoadedMessage)
		case errors.As(err, &notFound):
			respondError(w, http.StatusNotFound, notFound.Error())
		default:
			logging.Ctx(r.Context()).Error().Err(err).
				Str("movie_title", sanitizeLogValue(req.MovieTitle)).
				Msg("Recommendation failed")
			respondError(w, http.StatusInternalServerError, "Failed to generate recommendations")
		}
		return
	}

	items := make([]RecommendationItem, len(recs))
	for i, rec := range recs {
		items[i] = RecommendationItem{
			Title:           rec.Title,
			SimilarityScore: rec.SimilarityScore,
			PosterPath:      rec.PosterPath,
		}
	}

	respondJSON(w, http.StatusOK, &RecommendResponse{
		Movie:           req.MovieTitle,
		Recommendations: items,
		Status:          StatusSuccess,
	})
}

// parseRecommendRequest reads and validates the query parameters. On
// failure it writes the 400 response and returns false.
func (h *Handler) parseRecommendRequest(w http.ResponseWriter, r *http.Request) (*RecommendRequest, bool) {
	query := r.URL.Query()
	req := &RecommendRequest{
		MovieTitle: query.Get("movie_title"),
		N:          h.engine.Config().DefaultN,
	}

	if raw := query.Get("n_recommendations"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, &ErrorResponse{
				Error:   "n_recommendations must be an integer",
				Status:  StatusError,
				Details: map[string]interface{}{"field": "n_recommendations", "value": raw},
			})
			return nil, false
		}
		req.N = n
	}

	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		respondJSON(w, http.StatusBadRequest, &ErrorResponse{
			Error:   apiErr.Message,
			Status:  StatusError,
			Details: apiErr.Details,
		})
		return nil, false
	}
	return req, true
}
