// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package pipeline builds the artifacts the recommendation service loads.

A Pipeline runs an ordered list of stages. Each stage reads the previous
stage's file and writes its own:

	ingestion       zip download + extract      -> data_ingestion/final.csv
	transformation  features.Composer           -> data_transformation/transformed.csv
	preparation     textnorm.Normalizer         -> data_preparation/prepared.csv
	training        embedding.Embedder          -> model_trainer/movie_embeddings.gob.gz

Every file is replaced atomically, so a failed run never leaves a half
written artifact behind. The first failing stage stops the run and its
error is returned wrapped as "stage <id>: <cause>".

Observers receive an Event when each stage starts, completes or fails; the
server forwards them to websocket clients. Pipeline implements
recommend.Trainer so the engine can retrain in-process.
*/
package pipeline
