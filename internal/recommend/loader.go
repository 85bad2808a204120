// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// Column names read from the records artifact.
const (
	ColumnTitle       = "title"
	ColumnDescription = "cleaned_description"
	ColumnPosterPath  = "poster_path"
)

// Paths locates the artifacts a Store is built from.
type Paths struct {
	// Records is the prepared records CSV.
	Records string

	// Vectors is the embedding matrix written by the training stage.
	Vectors string

	// Posters optionally names a CSV with title and poster_path columns that
	// is left-joined onto the records. Ignored when empty or absent.
	Posters string
}

// Load reads and validates both artifacts and builds a Store. It never
// returns a partially built Store: any failure yields a *LoadError.
func Load(ctx context.Context, paths Paths) (*Store, error) {
	for _, p := range []string{paths.Records, paths.Vectors} {
		if _, err := os.Stat(p); err != nil {
			return nil, &LoadError{Reason: ReasonMissingFile, Path: p, Err: err}
		}
	}

	records, err := dataset.ReadFile(paths.Records)
	if err != nil {
		return nil, classify(paths.Records, err)
	}
	if err := records.Require(ColumnTitle); err != nil {
		return nil, &LoadError{Reason: ReasonParse, Path: paths.Records, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := joinPosters(records, paths.Posters); err != nil {
		return nil, err
	}

	vectors, meta, err := storage.ReadVectors(paths.Vectors)
	if err != nil {
		return nil, classify(paths.Vectors, err)
	}
	titles, err := records.Column(ColumnTitle)
	if err != nil {
		return nil, &LoadError{Reason: ReasonParse, Path: paths.Records, Err: err}
	}
	if err := meta.VerifyRecords(titles); err != nil {
		return nil, &LoadError{Reason: ReasonMismatch, Path: paths.Vectors, Err: err}
	}

	if records.Len() != len(vectors) {
		return nil, &LoadError{
			Reason: ReasonMismatch,
			Path:   paths.Vectors,
			Err:    fmt.Errorf("%d records but %d vectors", records.Len(), len(vectors)),
		}
	}

	movies := make([]Movie, records.Len())
	for i := range movies {
		movies[i] = Movie{
			Title:       records.Value(i, ColumnTitle),
			Description: records.Value(i, ColumnDescription),
			PosterPath:  records.Value(i, ColumnPosterPath),
		}
	}

	store, err := NewStore(movies, vectors)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Path == "" {
			loadErr.Path = paths.Vectors
		}
		return nil, err
	}
	return store, nil
}

// joinPosters replaces the records' poster_path with the one from the
// poster file, matched on exact title.
func joinPosters(records *dataset.Table, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	posters, err := dataset.ReadFile(path)
	if err != nil {
		return classify(path, err)
	}
	if err := records.LeftJoin(posters, ColumnTitle, ColumnPosterPath); err != nil {
		return &LoadError{Reason: ReasonParse, Path: path, Err: err}
	}
	return nil
}

func classify(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &LoadError{Reason: ReasonMissingFile, Path: path, Err: err}
	}
	return &LoadError{Reason: ReasonParse, Path: path, Err: err}
}
