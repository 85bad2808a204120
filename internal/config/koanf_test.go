// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultN != 12 || cfg.Recommend.MaxN != 100 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Features.GenreWeight != 3 || !cfg.Features.IncludeKeywords {
		t.Errorf("Features = %+v", cfg.Features)
	}
	if len(cfg.Features.DropColumns) != 18 {
		t.Errorf("DropColumns has %d entries, want 18", len(cfg.Features.DropColumns))
	}
	if cfg.Embedding.Provider != "hashing" || cfg.Embedding.Dimension != 384 {
		t.Errorf("Embedding = %+v", cfg.Embedding)
	}
	if cfg.Training.Interval != 0 || cfg.Training.Timeout != 30*time.Minute {
		t.Errorf("Training = %+v", cfg.Training)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestArtifactPaths(t *testing.T) {
	t.Parallel()

	a := ArtifactsConfig{Root: "artifacts"}
	tests := []struct {
		got, want string
	}{
		{a.FinalFile(), filepath.Join("artifacts", "data_ingestion", "final.csv")},
		{a.TransformedFile(), filepath.Join("artifacts", "data_transformation", "transformed.csv")},
		{a.PreparedFile(), filepath.Join("artifacts", "data_preparation", "prepared.csv")},
		{a.VectorsFile(), filepath.Join("artifacts", "model_trainer", "movie_embeddings.gob.gz")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDownloadURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  IngestionConfig
		want string
	}{
		{"none", IngestionConfig{}, ""},
		{"drive", IngestionConfig{DriveFileID: "abc123"}, "https://drive.google.com/uc?export=download&id=abc123"},
		{"url wins", IngestionConfig{SourceURL: "https://example.com/d.zip", DriveFileID: "abc"}, "https://example.com/d.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.DownloadURL(); got != tt.want {
				t.Errorf("DownloadURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"ARTIFACTS_DIR", "artifacts.root"},
		{"DRIVE_FILE_ID", "ingestion.drive_file_id"},
		{"GENRE_WEIGHT", "features.genre_weight"},
		{"EMBEDDING_PROVIDER", "embedding.provider"},
		{"embedding_url", "embedding.url"},
		{"DEFAULT_N_RECOMMENDATIONS", "recommend.default_n"},
		{"TRAIN_INTERVAL", "training.interval"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8000 || cfg.Logging.Level != "info" {
		t.Errorf("unexpected config: %+v", cfg.Server)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
logging:
  level: debug
  format: console
recommend:
  default_n: 5
  max_n: 50
security:
  cors_origins:
    - https://a.example
    - https://b.example
training:
  interval: 1h
`)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("EMBEDDING_DIMENSION", "128")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("env must override file: port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Recommend.DefaultN != 5 || cfg.Recommend.MaxN != 50 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.CacheSize != 1024 {
		t.Errorf("unset keys keep defaults: cache_size = %d", cfg.Recommend.CacheSize)
	}
	if cfg.Embedding.Dimension != 128 {
		t.Errorf("Embedding.Dimension = %d", cfg.Embedding.Dimension)
	}
	if cfg.Training.Interval != time.Hour {
		t.Errorf("Training.Interval = %s", cfg.Training.Interval)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoad_SliceFromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DROP_COLUMNS", "budget,revenue")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if !reflect.DeepEqual(cfg.Features.DropColumns, []string{"budget", "revenue"}) {
		t.Errorf("DropColumns = %v", cfg.Features.DropColumns)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "logging.level"},
		{"bad port", map[string]string{"HTTP_PORT": "70000"}, "server.port"},
		{"max below default", map[string]string{"MAX_N_RECOMMENDATIONS": "5"}, "recommend.max_n"},
		{"http without url", map[string]string{"EMBEDDING_PROVIDER": "http"}, "EMBEDDING_URL"},
		{"unknown provider", map[string]string{"EMBEDDING_PROVIDER": "magic"}, "embedding.provider"},
		{"short interval", map[string]string{"TRAIN_INTERVAL": "1m"}, "TRAIN_INTERVAL"},
		{"write timeout too short", map[string]string{"HTTP_WRITE_TIMEOUT": "1m"}, "HTTP_WRITE_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9000\n")

	t.Setenv(ConfigPathEnvVar, path)
	if got := FindConfigFile(); got != path {
		t.Errorf("FindConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	if got := FindConfigFile(); got == path {
		t.Error("missing CONFIG_PATH must not be returned")
	}
}

func TestReloadLogging(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "logging:\n  level: warn\n")
	lc, err := ReloadLogging(path)
	if err != nil {
		t.Fatal(err)
	}
	if lc.Level != "warn" || lc.Format != "json" {
		t.Errorf("ReloadLogging() = %+v", lc)
	}

	bad := writeConfigFile(t, "logging:\n  level: shout\n")
	if _, err := ReloadLogging(bad); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("development wildcard should not warn")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("production wildcard should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://movies.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}
