// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultHashingDimension matches the output size of small sentence
// embedding models so artifacts stay interchangeable in size.
const DefaultHashingDimension = 384

// HashingEmbedder is a deterministic, offline embedder based on signed
// feature hashing of unigrams and bigrams.
//
// Each feature is hashed with xxhash. The low bits pick a bucket and the top
// bit picks the sign, which keeps collisions unbiased. Vectors are
// L2-normalized, so texts sharing many terms score a high cosine similarity.
// Empty text yields the zero vector.
type HashingEmbedder struct {
	dim     int
	bigrams bool
}

// NewHashingEmbedder creates a hashing embedder. dim <= 0 selects
// DefaultHashingDimension.
func NewHashingEmbedder(dim int, bigrams bool) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultHashingDimension
	}
	return &HashingEmbedder{dim: dim, bigrams: bigrams}
}

// Dimension implements Embedder.
func (h *HashingEmbedder) Dimension() int {
	return h.dim
}

// Model implements Embedder.
func (h *HashingEmbedder) Model() string {
	if h.bigrams {
		return fmt.Sprintf("hashing-bigram-%d", h.dim)
	}
	return fmt.Sprintf("hashing-%d", h.dim)
}

// Embed implements Embedder.
func (h *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashingEmbedder) vector(text string) []float32 {
	v := make([]float32, h.dim)
	tokens := strings.Fields(text)

	for i, tok := range tokens {
		h.add(v, tok)
		if h.bigrams && i > 0 {
			h.add(v, tokens[i-1]+" "+tok)
		}
	}
	NormalizeL2(v)
	return v
}

func (h *HashingEmbedder) add(v []float32, feature string) {
	sum := xxhash.Sum64String(feature)
	bucket := (sum & (1<<63 - 1)) % uint64(h.dim)
	if sum>>63 == 1 {
		v[bucket]--
	} else {
		v[bucket]++
	}
}
