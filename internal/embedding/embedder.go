// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package embedding

import (
	"context"
	"fmt"
	"math"
)

// Embedder turns texts into fixed-dimension vectors.
//
// When Embed returns a nil error the result has one vector per input text,
// in input order, each of length Dimension().
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the vector length.
	Dimension() int

	// Model names the embedding function. Vectors from different models
	// must never be mixed in one store.
	Model() string
}

// Progress is called after each batch with the number of texts embedded so
// far and the total.
type Progress func(done, total int)

// EmbedAll embeds texts in batches of batchSize, checking ctx between
// batches. A non-positive batchSize embeds everything in one call.
func EmbedAll(ctx context.Context, e Embedder, texts []string, batchSize int, progress Progress) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = len(texts)
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+batchSize, len(texts))

		vectors, err := e.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed texts %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("embed texts %d-%d: got %d vectors for %d texts", start, end-1, len(vectors), end-start)
		}
		out = append(out, vectors...)

		if progress != nil {
			progress(len(out), len(texts))
		}
	}
	return out, nil
}

// NormalizeL2 scales vector to unit length in place. Zero vectors are left
// unchanged.
func NormalizeL2(vector []float32) {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}

	magnitude := math.Sqrt(sumSquares)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / magnitude)
	}
}
