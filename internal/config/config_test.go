package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `problem: maxcut
edges: "0-1,1-2,0-2"
layers: 3
strategy: shift
iters: 200
tolerance: 1e-6
step: 0.05
shots: 2000
seed: 7
checkpointInterval: 30
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Problem != "maxcut" {
		t.Errorf("Problem = %q, want maxcut", cfg.Problem)
	}
	if cfg.Edges != "0-1,1-2,0-2" {
		t.Errorf("Edges = %q", cfg.Edges)
	}
	if cfg.Layers != 3 || cfg.Iters != 200 || cfg.Shots != 2000 {
		t.Errorf("Numeric fields not parsed: %+v", cfg)
	}
	if cfg.Tolerance != 1e-6 {
		t.Errorf("Tolerance = %v, want 1e-6", cfg.Tolerance)
	}
	if cfg.Strategy != "shift" || cfg.Seed != 7 {
		t.Errorf("Strategy/seed not parsed: %+v", cfg)
	}
	if cfg.CheckpointInterval != 30 {
		t.Errorf("CheckpointInterval = %d, want 30", cfg.CheckpointInterval)
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("problem: maxcut\nshotss: 100\n"))
	if err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("problem: [unclosed"))
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Problem != "maxcut" {
		t.Errorf("Problem = %q, want maxcut", cfg.Problem)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
