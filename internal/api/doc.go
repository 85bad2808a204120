// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package api provides the HTTP layer of the recommendation service.

Routes:

	GET  /movies          sorted catalog titles
	GET  /health          model and artifact state, always 200
	POST /recommend       ?movie_title=<title>&n_recommendations=<n>
	GET  /train           retrain and reload, ?async=true answers 202
	GET  /api/v1/status   engine training status
	GET  /ws/training     websocket stream of pipeline progress
	GET  /metrics         Prometheus exposition
	GET  /swagger/*       Swagger UI

Responses keep the flat shape clients of the service already parse: a
"status" field of success, warning or error, with "error" carrying the
message on failures and "message" on the training endpoint.

	{"movie":"Alpha","recommendations":[{"title":"Beta","similarity_score":0.994}],"status":"success"}
	{"error":"Movie 'Delta' not found in database","status":"error"}

Errors from the engine are mapped with errors.Is and errors.As:
recommend.ErrNotLoaded answers 503, *recommend.NotFoundError 404 and
recommend.ErrTrainingInProgress 409. Invalid query parameters answer 400
with validation details.

Middleware:

Every route passes through request ID, real IP, request logging, panic
recovery, CORS and Prometheus middleware. The JSON routes add security
headers and gzip compression. /recommend, /movies and /ws/training share
the default per-IP limit; /train has its own stricter one. Rejected
requests answer 429 and increment api_rate_limit_hits_total.

Training runs are detached from the client connection. A client that hangs
up does not abort a retrain; cancelling HandlerConfig.BaseContext does.
*/
package api
