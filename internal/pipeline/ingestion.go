// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package pipeline

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/breaker"
	"github.com/tomtom215/movierec/internal/dataset"
)

// maxExtractedFileSize bounds a single archive member.
const maxExtractedFileSize = 2 << 30

// IngestionConfig configures the ingestion stage.
type IngestionConfig struct {
	// SourceURL is where the dataset zip is downloaded from. Empty means the
	// data is provisioned out of band and only FinalFile is checked.
	SourceURL string

	// LocalFile is the downloaded zip. An existing file is not downloaded
	// again.
	LocalFile string

	// UnzipDir receives the archive contents.
	UnzipDir string

	// FinalFile is the merged movie CSV the archive must provide.
	FinalFile string

	// DownloadTimeout bounds the HTTP download.
	DownloadTimeout time.Duration

	Breaker breaker.Config
}

// IngestionStage downloads and extracts the raw dataset.
type IngestionStage struct {
	cfg    IngestionConfig
	client *http.Client
	cb     *breaker.Breaker[int64]
	logger zerolog.Logger
}

// NewIngestionStage creates the ingestion stage.
//
//nolint:gocritic // cfg and logger passed by value are acceptable for construction
func NewIngestionStage(cfg IngestionConfig, logger zerolog.Logger) *IngestionStage {
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 10 * time.Minute
	}
	return &IngestionStage{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.DownloadTimeout},
		cb:     breaker.New[int64]("dataset-download", cfg.Breaker),
		logger: logger.With().Str("stage", StageIngestion).Logger(),
	}
}

// ID implements Stage.
func (s *IngestionStage) ID() string { return StageIngestion }

// Name implements Stage.
func (s *IngestionStage) Name() string { return "Data Ingestion" }

// Run downloads the archive if needed, extracts it and verifies FinalFile.
// It reports the number of movie rows in FinalFile.
func (s *IngestionStage) Run(ctx context.Context) (int, error) {
	if s.cfg.SourceURL != "" {
		if err := s.download(ctx); err != nil {
			return 0, err
		}
		extracted, err := s.extract(ctx)
		if err != nil {
			return 0, err
		}
		s.logger.Info().Int("files", extracted).Str("dir", s.cfg.UnzipDir).Msg("Extraction complete")
	}

	tbl, err := dataset.ReadFile(s.cfg.FinalFile)
	if err != nil {
		return 0, fmt.Errorf("read ingested data: %w", err)
	}
	if err := tbl.Require("title"); err != nil {
		return 0, fmt.Errorf("%s: %w", s.cfg.FinalFile, err)
	}
	return tbl.Len(), nil
}

func (s *IngestionStage) download(ctx context.Context) error {
	if _, err := os.Stat(s.cfg.LocalFile); err == nil {
		s.logger.Info().Str("path", s.cfg.LocalFile).Msg("File already exists, skipping download")
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.cfg.LocalFile, err)
	}

	s.logger.Info().Str("url", s.cfg.SourceURL).Msg("Downloading dataset")
	n, err := s.cb.Execute(func() (int64, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return fmt.Errorf("download dataset: %w", err)
	}
	s.logger.Info().Int64("bytes", n).Str("path", s.cfg.LocalFile).Msg("File downloaded successfully")
	return nil
}

func (s *IngestionStage) fetch(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.SourceURL, http.NoBody)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	dir := filepath.Dir(s.cfg.LocalFile)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.cfg.LocalFile)+".part-*")
	if err != nil {
		return 0, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return n, os.Rename(tmp.Name(), s.cfg.LocalFile)
}

// extract unpacks LocalFile into UnzipDir. Entries that would land outside
// UnzipDir are rejected.
func (s *IngestionStage) extract(ctx context.Context) (int, error) {
	zr, err := zip.OpenReader(s.cfg.LocalFile)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = zr.Close()
		return 0, fmt.Errorf("archive has entries that escape %s: %w", s.cfg.UnzipDir, err)
	}
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	root, err := filepath.Abs(s.cfg.UnzipDir)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return 0, err
	}

	s.logger.Info().Str("dir", root).Msg("Extracting dataset")
	extracted := 0
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return extracted, err
		}

		target := filepath.Join(root, f.Name) //nolint:gosec // checked against root below
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return extracted, fmt.Errorf("archive entry %q escapes %s", f.Name, s.cfg.UnzipDir)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return extracted, err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return extracted, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		extracted++
	}
	return extracted, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640) //nolint:gosec // target validated by caller
	if err != nil {
		return err
	}
	n, err := io.Copy(dst, io.LimitReader(src, maxExtractedFileSize+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if n > maxExtractedFileSize {
		return fmt.Errorf("entry larger than %d bytes", maxExtractedFileSize)
	}
	return nil
}
