// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package embedding computes the vector for each movie description.

The rest of the system treats the embedding function as opaque: it only needs
an Embedder that maps texts to vectors of one fixed dimension. Two providers
are available:

  - hashing: signed feature hashing of unigrams (and optionally bigrams)
    with xxhash, L2-normalized. Deterministic, offline and the default.
  - http: a text-embeddings-inference style endpoint serving a sentence
    embedding model, throttled with golang.org/x/time/rate and guarded by a
    circuit breaker.

Either provider can be wrapped in a CachedEmbedder, a badger store keyed by
the BLAKE2b hash of model name and text.

Vectors from different models are not comparable. The model name is written
into the vector artifact metadata so a mismatch is visible.
*/
package embedding
