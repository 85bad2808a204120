// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Store is an immutable catalog of movies aligned 1:1 with their vectors.
type Store struct {
	movies  []Movie
	vectors [][]float32
	norms   []float64
	byTitle map[string]int
	dim     int

	// generation is assigned by the Engine before the store is published.
	generation int64
}

// NewStore validates that movies and vectors line up and share a dimension.
// The slices are retained, so callers must not modify them afterwards.
func NewStore(movies []Movie, vectors [][]float32) (*Store, error) {
	if len(movies) != len(vectors) {
		return nil, &LoadError{
			Reason: ReasonMismatch,
			Err:    fmt.Errorf("%d records but %d vectors", len(movies), len(vectors)),
		}
	}
	if len(movies) == 0 {
		return nil, &LoadError{Reason: ReasonMismatch, Err: errors.New("store is empty")}
	}

	dim := len(vectors[0])
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &LoadError{
				Reason: ReasonMismatch,
				Err:    fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim),
			}
		}
		norms[i] = norm(v)
	}

	byTitle := make(map[string]int, len(movies))
	for i, m := range movies {
		key := titleKey(m.Title)
		if _, seen := byTitle[key]; !seen {
			byTitle[key] = i
		}
	}

	return &Store{
		movies:  movies,
		vectors: vectors,
		norms:   norms,
		byTitle: byTitle,
		dim:     dim,
	}, nil
}

// Len returns the number of movies.
func (s *Store) Len() int {
	return len(s.movies)
}

// Dimension returns the vector length.
func (s *Store) Dimension() int {
	return s.dim
}

// Generation returns the reload counter value the store was published under.
// Stores that were never published through an Engine report 0.
func (s *Store) Generation() int64 {
	return s.generation
}

// Movie returns the movie at index i.
func (s *Store) Movie(i int) Movie {
	return s.movies[i]
}

// Lookup resolves a title case-insensitively. The first row wins when
// titles repeat.
func (s *Store) Lookup(title string) (int, bool) {
	i, ok := s.byTitle[titleKey(title)]
	return i, ok
}

// Titles returns every title in ascending byte order. Repeated titles are
// kept, one entry per row.
func (s *Store) Titles() []string {
	titles := make([]string, len(s.movies))
	for i, m := range s.movies {
		titles[i] = m.Title
	}
	sort.Strings(titles)
	return titles
}

func titleKey(title string) string {
	return strings.ToLower(title)
}
