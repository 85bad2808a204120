// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

const cacheKeyPrefix = "emb:"

// CacheConfig configures the on-disk embedding cache.
type CacheConfig struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the cache in memory only.
	InMemory bool

	// TTL expires entries. Zero keeps them forever.
	TTL time.Duration
}

// CachedEmbedder memoises another Embedder in badger, keyed by the BLAKE2b
// hash of model name and text. Only texts that miss the cache reach the
// wrapped embedder, so an unchanged catalog re-embeds nothing on retrain.
type CachedEmbedder struct {
	inner Embedder
	db    *badger.DB
	ttl   time.Duration
}

// OpenCachedEmbedder opens the badger store and wraps inner.
//
//nolint:gocritic // cfg passed by value is acceptable for construction
func OpenCachedEmbedder(inner Embedder, cfg CacheConfig) (*CachedEmbedder, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, errors.New("embedding cache path must be set")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Str("model", inner.Model()).
		Msg("embedding cache opened")

	return &CachedEmbedder{inner: inner, db: db, ttl: cfg.TTL}, nil
}

// Dimension implements Embedder.
func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

// Model implements Embedder.
func (c *CachedEmbedder) Model() string {
	return c.inner.Model()
}

// Close releases the badger store.
func (c *CachedEmbedder) Close() error {
	return c.db.Close()
}

// Embed implements Embedder.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([][]byte, len(texts))
	model := c.inner.Model()
	for i, text := range texts {
		keys[i] = cacheKey(model, text)
	}

	var missIdx []int
	err := c.db.View(func(txn *badger.Txn) error {
		for i, key := range keys {
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				missIdx = append(missIdx, i)
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				v, err := decodeVector(val)
				out[i] = v
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read embedding cache: %w", err)
	}

	metrics.RecordCacheAccesses("embedding", len(texts)-len(missIdx), len(missIdx))
	if len(missIdx) == 0 {
		return out, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}
	fresh, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(missTexts))
	}

	wb := c.db.NewWriteBatch()
	defer wb.Cancel()
	for j, i := range missIdx {
		out[i] = fresh[j]
		entry := badger.NewEntry(keys[i], encodeVector(fresh[j]))
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		if err := wb.SetEntry(entry); err != nil {
			return nil, fmt.Errorf("write embedding cache: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return nil, fmt.Errorf("flush embedding cache: %w", err)
	}
	return out, nil
}

func cacheKey(model, text string) []byte {
	h, _ := blake2b.New256(nil) // a nil key never fails
	_, _ = h.Write([]byte(model))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(text))
	return h.Sum([]byte(cacheKeyPrefix))
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("cached vector has %d bytes, not a multiple of 4", len(buf))
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return v, nil
}
