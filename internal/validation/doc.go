// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package validation wraps go-playground/validator v10 with a shared,
// lazily built validator and API-friendly error messages.
//
// Request structs and configuration sections declare their rules with
// `validate` tags:
//
//	type RecommendRequest struct {
//	    MovieTitle      string `query:"movie_title" validate:"notblank,max=500"`
//	    NRecommendations int   `query:"n_recommendations" validate:"gte=1"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // 400 with apiErr.Message, e.g. "movie_title must not be blank"
//	}
//
// Messages use the query, json or koanf tag as the field name. Nested
// struct fields are reported by dotted path ("server.port").
package validation
