// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package features composes the text that represents a movie before
// normalization and embedding.
//
// A description is the concatenation, in order and each followed by a space,
// of overview, keywords (optional), cleaned genres, cleaned production
// companies and original language. The cleaned genre list is then repeated
// GenreWeight times and appended, which raises the weight of genre terms in
// the embedding relative to a single mention:
//
//	overview:  "A hero rises"
//	genres:    "Action, Drama"
//	companies: "Marvel Studios"
//	language:  "en"
//
//	"A hero rises Action, Drama MarvelStudios en  Action Drama Action Drama Action Drama"
//
// Transform applies this to a whole table, removing vote, financial and
// identifier columns first. Removing a column that does not exist fails with
// a *dataset.SchemaError naming every missing column.
package features
