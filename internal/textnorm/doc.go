// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package textnorm turns a composed movie description into the token stream
// that is fed to the embedding model.
//
// # Stages
//
// The stages are order-sensitive and each is a pure string transform:
//
//  1. Lower lowercases the whole string.
//  2. RemovePunctuation keeps word runs (letters, digits, underscore, hyphen).
//  3. RemoveNumbers deletes ASCII digits in place, so "movie123" becomes "movie".
//  4. Lemmatize maps each token to its base form.
//  5. RemoveStopWords drops English stop words.
//
// Punctuation and digits go before lemmatization so the lemmatizer never sees
// mixed tokens. Stop words go last because lemmatization can produce one.
//
// # Idempotence
//
// Normalize(Normalize(s)) == Normalize(s). The noun lemmatizer only emits
// fixed points of itself and the stop-word pass runs after it.
//
// # Example
//
//	n := textnorm.Default()
//	n.Normalize("The 2 Heroes rise again!") // "hero rise"
package textnorm
