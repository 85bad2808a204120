// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/pipeline"
)

// testLoader returns a config rooted at a temp dir holding an already
// ingested final.csv, so the ingestion stage runs offline.
func testLoader(t *testing.T) loadConfig {
	t.Helper()

	root := t.TempDir()
	final := filepath.Join(root, "data_ingestion", "final.csv")
	if err := os.MkdirAll(filepath.Dir(final), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(final, []byte("title,overview\nAlpha,a\nBeta,b\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	return func() (*config.Config, error) {
		return &config.Config{
			Logging:   config.LoggingConfig{Level: "error", Format: "json"},
			Artifacts: config.ArtifactsConfig{Root: root},
			Ingestion: config.IngestionConfig{DownloadTimeout: time.Minute},
			Embedding: config.EmbeddingConfig{Provider: "hashing", Dimension: 32, BatchSize: 8, Burst: 1, Timeout: time.Second},
			Recommend: config.RecommendConfig{DefaultN: 12, MaxN: 50},
			Training:  config.TrainingConfig{Timeout: time.Minute},
		}, nil
	}
}

func execute(t *testing.T, load loadConfig, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd("test", load)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd("1.2.3", nil)

	if cmd.Use != "pipeline" {
		t.Errorf("Use = %q, want pipeline", cmd.Use)
	}
	if cmd.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", cmd.Version)
	}
	for _, name := range []string{"stages", "json"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag %q missing", name)
		}
	}
}

func TestStagesCommandListsStages(t *testing.T) {
	out, err := execute(t, testLoader(t), "stages")
	if err != nil {
		t.Fatalf("stages: %v", err)
	}

	want := strings.Join([]string{
		pipeline.StageIngestion, pipeline.StageTransformation, pipeline.StagePreparation, pipeline.StageTraining,
	}, "\n") + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunSelectedStageJSON(t *testing.T) {
	out, err := execute(t, testLoader(t), "--stages", "ingestion", "--json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var result pipeline.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(result.Stages) != 1 || result.Stages[0].ID != pipeline.StageIngestion {
		t.Fatalf("stages = %+v", result.Stages)
	}
	if result.Stages[0].Records != 2 {
		t.Errorf("records = %d, want 2", result.Stages[0].Records)
	}
}

func TestRunSelectedStageText(t *testing.T) {
	out, err := execute(t, testLoader(t), "--stages", "ingestion")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "ingestion") || !strings.Contains(out, "2 records") {
		t.Errorf("output = %q", out)
	}
}

func TestRunErrors(t *testing.T) {
	loadErr := errors.New("bad config")

	tests := []struct {
		name    string
		load    func(t *testing.T) loadConfig
		args    []string
		wantErr string
	}{
		{
			name:    "unknown stage",
			load:    testLoader,
			args:    []string{"--stages", "scraping"},
			wantErr: "unknown stages",
		},
		{
			name: "config failure",
			load: func(*testing.T) loadConfig {
				return func() (*config.Config, error) { return nil, loadErr }
			},
			wantErr: "bad config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.load(t), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
