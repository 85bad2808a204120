// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package main provides the MovieRec HTTP server
//
// @title MovieRec API
// @version 1.0
// @description Content-based movie recommendations from embedded movie descriptions
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address. GET /train allows 2 per window.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "error": "Movie 'Unknown' not found in database",
// @description   "status": "error"
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/movierec/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /
// @schemes http https
//
// @tag.name Core
// @tag.description Health and status endpoints
//
// @tag.name Movies
// @tag.description Catalog listing and similarity recommendations
//
// @tag.name Training
// @tag.description Retraining and live training progress
package main
