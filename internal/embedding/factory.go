// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package embedding

import (
	"fmt"
)

// Provider names accepted by New.
const (
	ProviderHashing = "hashing"
	ProviderHTTP    = "http"
)

// Config selects and configures an embedder.
type Config struct {
	// Provider is ProviderHashing or ProviderHTTP.
	Provider string

	// Dimension applies to the hashing provider and, when non-zero, is the
	// expected dimension of the HTTP provider.
	Dimension int

	// Bigrams adds bigram features to the hashing provider.
	Bigrams bool

	// HTTP configures the HTTP provider.
	HTTP HTTPConfig

	// CacheEnabled wraps the provider in a CachedEmbedder.
	CacheEnabled bool
	Cache        CacheConfig
}

// New builds the configured embedder. The returned close function releases
// any cache and is never nil.
//
//nolint:gocritic // cfg passed by value is acceptable for construction
func New(cfg Config) (Embedder, func() error, error) {
	noop := func() error { return nil }

	var base Embedder
	switch cfg.Provider {
	case "", ProviderHashing:
		base = NewHashingEmbedder(cfg.Dimension, cfg.Bigrams)
	case ProviderHTTP:
		httpCfg := cfg.HTTP
		if httpCfg.Dimension == 0 {
			httpCfg.Dimension = cfg.Dimension
		}
		e, err := NewHTTPEmbedder(httpCfg)
		if err != nil {
			return nil, noop, err
		}
		base = e
	default:
		return nil, noop, fmt.Errorf("unknown embedding provider %q (expected %s or %s)", cfg.Provider, ProviderHashing, ProviderHTTP)
	}

	if !cfg.CacheEnabled {
		return base, noop, nil
	}
	cached, err := OpenCachedEmbedder(base, cfg.Cache)
	if err != nil {
		return nil, noop, err
	}
	return cached, cached.Close, nil
}
