// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"math"
	"sort"
)

// scoreDecimals is the precision of returned similarity scores.
const scoreDecimals = 3

// Cosine returns the cosine similarity of a and b, or 0 when either vector
// has zero norm. Vectors of different length score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	return cosineWithNorms(a, b, norm(a), norm(b))
}

func cosineWithNorms(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// roundScore rounds half away from zero to scoreDecimals places.
func roundScore(x float64) float64 {
	scale := math.Pow10(scoreDecimals)
	return math.Round(x*scale) / scale
}

type scored struct {
	index int
	score float64
}

// Recommend returns the n movies most similar to title.
//
// The query row itself is excluded; under cosine similarity it is rank 1
// for any non-zero vector. When fewer than n other movies exist, all of them
// are returned. n <= 0 yields an empty list for a known title.
func Recommend(s *Store, title string, n int) ([]Recommendation, error) {
	query, ok := s.Lookup(title)
	if !ok {
		return nil, &NotFoundError{Title: title}
	}
	if n <= 0 {
		return []Recommendation{}, nil
	}

	q := s.vectors[query]
	qNorm := s.norms[query]

	ranked := make([]scored, 0, len(s.vectors)-1)
	for i, v := range s.vectors {
		if i == query {
			continue
		}
		ranked = append(ranked, scored{index: i, score: cosineWithNorms(q, v, qNorm, s.norms[i])})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]Recommendation, n)
	for i, r := range ranked[:n] {
		m := s.movies[r.index]
		out[i] = Recommendation{
			Title:           m.Title,
			SimilarityScore: roundScore(r.score),
			PosterPath:      m.PosterPath,
		}
	}
	return out, nil
}
