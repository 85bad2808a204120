// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewStoreValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		movies  []Movie
		vectors [][]float32
	}{
		{"empty", nil, nil},
		{"more movies", []Movie{{Title: "A"}, {Title: "B"}}, [][]float32{{1}}},
		{"more vectors", []Movie{{Title: "A"}}, [][]float32{{1}, {2}}},
		{"ragged", []Movie{{Title: "A"}, {Title: "B"}}, [][]float32{{1, 2}, {1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewStore(tt.movies, tt.vectors)
			if s != nil {
				t.Error("no store may be returned on error")
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) || loadErr.Reason != ReasonMismatch {
				t.Errorf("expected mismatch LoadError, got %v", err)
			}
		})
	}
}

func TestStoreAccessors(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, []string{"Zodiac", "alien", "Heat", "Alien"}, [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}})

	if s.Len() != 4 || s.Dimension() != 3 {
		t.Errorf("Len=%d Dimension=%d", s.Len(), s.Dimension())
	}
	if s.Generation() != 0 {
		t.Errorf("unpublished Generation = %d", s.Generation())
	}
	if i, ok := s.Lookup("ALIEN"); !ok || i != 1 {
		t.Errorf("Lookup(ALIEN) = %d, %v; want first match 1", i, ok)
	}
	if _, ok := s.Lookup("Alien 3"); ok {
		t.Error("Lookup must be an exact match")
	}
	if got := s.Movie(2).Title; got != "Heat" {
		t.Errorf("Movie(2) = %q", got)
	}
	if got, want := s.Titles(), []string{"Alien", "Heat", "Zodiac", "alien"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Titles() = %v, want %v", got, want)
	}
}
