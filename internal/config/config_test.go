package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Paths.DatabasePath == "" {
		t.Fatal("expected database path derived from data dir")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `"

[matching]
year_mismatch_penalty = 2.5
max_edit_distance = 1

[workers]
count = 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Matching.YearMismatchPenalty != 2.5 {
		t.Fatalf("year penalty = %v", cfg.Matching.YearMismatchPenalty)
	}
	if cfg.Matching.MaxEditDistance != 1 {
		t.Fatalf("max edit distance = %d", cfg.Matching.MaxEditDistance)
	}
	if cfg.Workers.Count != 8 {
		t.Fatalf("workers = %d", cfg.Workers.Count)
	}
	// Untouched sections keep defaults.
	if cfg.Matching.SisterStagePenalty != defaultSisterStagePenalty {
		t.Fatalf("sister stage penalty = %v", cfg.Matching.SisterStagePenalty)
	}
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.Matching.SisterStagePenalty = cfg.Matching.GenusStagePenalty
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "sister_stage_penalty") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers.Count = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[matching]") {
		t.Fatal("sample missing matching section")
	}
}
