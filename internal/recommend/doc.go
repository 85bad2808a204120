// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package recommend serves content-based movie recommendations from an
in-memory embedding store.

# Overview

A Store pairs an ordered list of movies with an equally long list of
embedding vectors of one shared dimension. It is built from two artifacts
written by the offline pipeline (see internal/pipeline):

  - records: CSV with a title column, the normalized description and an
    optional poster_path column
  - vectors: the gob/gzip matrix written by internal/recommend/storage

Load validates both artifacts together and either returns a complete Store or
a *LoadError. A Store is never modified after construction.

# Ranking

Recommend resolves a title case-insensitively (the first matching row wins
when titles repeat), scores every row by cosine similarity against the query
vector, sorts the scores descending with ties kept in catalog order, drops the
query row and returns the next n entries with scores rounded to three
decimals. A zero vector on either side scores 0.

# Engine

Engine owns the current Store behind an atomic pointer. Readers take a
snapshot and never lock. Reload builds a new Store and swaps it in only after
it validated; on failure the previous Store keeps serving. Retrain runs the
offline pipeline through the Trainer interface and then reloads. At most one
retrain runs at a time: a second caller gets ErrTrainingInProgress
immediately instead of queueing.

Results are memoised in an LRU cache keyed by store generation, lowercased
title and n, so a swap never serves results from the previous store.

# Thread Safety

All exported Engine methods are safe for concurrent use.
*/
package recommend
