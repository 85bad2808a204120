// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package storage persists the embedding matrix produced by a training run.
//
// # File Format
//
// A vector file is a single gob-encoded struct:
//
//	storedFile
//	  Metadata        VectorMetadata (rows, dimension, model, checksum, records fingerprint, ...)
//	  CompressedData  gzip(gob([][]float32))
//
// The checksum is the SHA-256 of the uncompressed gob payload and is verified
// on every read. The records fingerprint ties the matrix to the titles of the
// records file it was embedded from. Files are written to a temporary name and renamed into
// place, so a reader sees either the previous file or the new one.
package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrRecordsMismatch is returned by VerifyRecords when the vectors were
// computed for a different set of records.
var ErrRecordsMismatch = errors.New("vector file was built from different records")

// ErrChecksumMismatch is returned when the payload does not match the
// checksum recorded in the metadata.
var ErrChecksumMismatch = errors.New("vector file checksum mismatch")

// VectorMetadata describes a stored embedding matrix.
type VectorMetadata struct {
	// Rows is the number of vectors (one per movie record).
	Rows int `json:"rows"`

	// Dimension is the length of every vector.
	Dimension int `json:"dimension"`

	// Model names the embedder that produced the vectors.
	Model string `json:"model"`

	// CreatedAt is when the training run finished embedding.
	CreatedAt time.Time `json:"created_at"`

	// SavedAt is when the file was written.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the hex SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long embedding took.
	TrainingDurationMS int64 `json:"training_duration_ms"`

	// RecordsFingerprint identifies the ordered titles the vectors were
	// computed for (see Fingerprint). Empty when unknown.
	RecordsFingerprint string `json:"records_fingerprint,omitempty"`
}

// Fingerprint returns the hex SHA-256 of the row count followed by every
// title in order. Each title is length-prefixed, so no two distinct title
// lists share a fingerprint by concatenation.
func Fingerprint(titles []string) string {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte
	h.Write(buf[:binary.PutUvarint(buf[:], uint64(len(titles)))])
	for _, t := range titles {
		h.Write(buf[:binary.PutUvarint(buf[:], uint64(len(t)))])
		h.Write([]byte(t))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyRecords checks that titles are the records the vectors were built
// from. Metadata without a fingerprint is accepted.
func (m *VectorMetadata) VerifyRecords(titles []string) error {
	if m.RecordsFingerprint == "" {
		return nil
	}
	if got := Fingerprint(titles); got != m.RecordsFingerprint {
		return fmt.Errorf("%w: expected %s, got %s", ErrRecordsMismatch, m.RecordsFingerprint, got)
	}
	return nil
}

type storedFile struct {
	Metadata       VectorMetadata
	CompressedData []byte
}

// WriteVectors validates that all rows share one dimension and writes them
// to path. Rows and Dimension in meta are filled in from vectors.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func WriteVectors(path string, vectors [][]float32, meta VectorMetadata) (*VectorMetadata, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to write")
	}
	dim, err := dimension(vectors)
	if err != nil {
		return nil, err
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(vectors); err != nil {
		return nil, fmt.Errorf("encode vectors: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress vectors: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Rows = len(vectors)
	meta.Dimension = dim
	meta.Checksum = hex.EncodeToString(sum[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for artifacts
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create vector file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write vector file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close vector file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("install vector file: %w", err)
	}
	return &meta, nil
}

// ReadVectors reads and verifies a vector file.
func ReadVectors(path string) ([][]float32, *VectorMetadata, error) {
	sf, err := readStoredFile(path)
	if err != nil {
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress vectors: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed vectors: %w", err)
	}

	sum := sha256.Sum256(raw)
	if got := hex.EncodeToString(sum[:]); got != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, got)
	}

	var vectors [][]float32
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&vectors); err != nil {
		return nil, nil, fmt.Errorf("decode vectors: %w", err)
	}
	if len(vectors) != sf.Metadata.Rows {
		return nil, nil, fmt.Errorf("vector file holds %d rows, metadata says %d", len(vectors), sf.Metadata.Rows)
	}
	return vectors, &sf.Metadata, nil
}

// ReadMetadata returns the metadata header without decompressing the matrix.
func ReadMetadata(path string) (*VectorMetadata, error) {
	sf, err := readStoredFile(path)
	if err != nil {
		return nil, err
	}
	return &sf.Metadata, nil
}

func readStoredFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read vector file: %w", err)
	}
	return &sf, nil
}

// dimension returns the shared row length or an error for ragged input.
func dimension(vectors [][]float32) (int, error) {
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return 0, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return dim, nil
}
