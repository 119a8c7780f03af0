package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestStore creates a temporary directory and an FSStore for testing.
func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	return store, tempDir
}

// createTestCheckpoint creates a checkpoint with test data.
func createTestCheckpoint(jobID string) *Checkpoint {
	return &Checkpoint{
		JobID:       jobID,
		Params:      []float64{0.41, -1.2, 2.75, 0.08},
		Cost:        -5.9321,
		InitialCost: -0.52,
		Iteration:   140,
		Timestamp:   time.Now(),
		Config: RunConfig{
			Problem:     "hamiltonian",
			Hamiltonian: "2*X1 + 4*Z1 - X0X2",
			Layers:      2,
			Strategy:    "shift",
			Iters:       500,
			Tolerance:   1e-6,
			Step:        0.1,
			Seed:        42,
		},
	}
}

func TestNewFSStore(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if store == nil {
		t.Fatal("Expected non-nil store")
	}
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Fatal("Base directory was not created")
	}
}

func TestSaveAndLoadCheckpoint(t *testing.T) {
	store, tempDir := setupTestStore(t)

	jobID := "test-run-123"
	checkpoint := createTestCheckpoint(jobID)

	if err := store.SaveCheckpoint(jobID, checkpoint); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "runs", jobID, "checkpoint.json")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Fatalf("Checkpoint file was not created at %s", expectedPath)
	}

	loaded, err := store.LoadCheckpoint(jobID)
	if err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}

	if loaded.JobID != jobID {
		t.Errorf("JobID = %q, want %q", loaded.JobID, jobID)
	}
	if loaded.Cost != checkpoint.Cost {
		t.Errorf("Cost = %v, want %v", loaded.Cost, checkpoint.Cost)
	}
	if len(loaded.Params) != len(checkpoint.Params) {
		t.Fatalf("Params length %d, want %d", len(loaded.Params), len(checkpoint.Params))
	}
	for i := range loaded.Params {
		if loaded.Params[i] != checkpoint.Params[i] {
			t.Errorf("Params[%d] = %v, want %v", i, loaded.Params[i], checkpoint.Params[i])
		}
	}
	if loaded.Config.Hamiltonian != checkpoint.Config.Hamiltonian {
		t.Errorf("Config.Hamiltonian = %q, want %q", loaded.Config.Hamiltonian, checkpoint.Config.Hamiltonian)
	}
}

func TestSaveCheckpointValidation(t *testing.T) {
	store, _ := setupTestStore(t)

	if err := store.SaveCheckpoint("", createTestCheckpoint("x")); err == nil {
		t.Error("Expected error for empty jobID")
	}
	if err := store.SaveCheckpoint("x", nil); err == nil {
		t.Error("Expected error for nil checkpoint")
	}
}

func TestLoadCheckpointNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.LoadCheckpoint("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListCheckpoints(t *testing.T) {
	store, _ := setupTestStore(t)

	infos, err := store.ListCheckpoints()
	if err != nil {
		t.Fatalf("ListCheckpoints failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected empty list, got %d entries", len(infos))
	}

	for _, id := range []string{"run-a", "run-b"} {
		if err := store.SaveCheckpoint(id, createTestCheckpoint(id)); err != nil {
			t.Fatalf("SaveCheckpoint(%s) failed: %v", id, err)
		}
	}

	infos, err = store.ListCheckpoints()
	if err != nil {
		t.Fatalf("ListCheckpoints failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 checkpoints, got %d", len(infos))
	}
	for _, info := range infos {
		if info.Strategy != "shift" {
			t.Errorf("Info %s: strategy %q, want shift", info.JobID, info.Strategy)
		}
	}
}

func TestDeleteCheckpoint(t *testing.T) {
	store, _ := setupTestStore(t)

	jobID := "doomed-run"
	if err := store.SaveCheckpoint(jobID, createTestCheckpoint(jobID)); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	if err := store.DeleteCheckpoint(jobID); err != nil {
		t.Fatalf("DeleteCheckpoint failed: %v", err)
	}
	if _, err := store.LoadCheckpoint(jobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := store.DeleteCheckpoint(jobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}

func TestCheckpointOverwrite(t *testing.T) {
	store, _ := setupTestStore(t)

	jobID := "overwrite-run"
	first := createTestCheckpoint(jobID)
	if err := store.SaveCheckpoint(jobID, first); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	second := createTestCheckpoint(jobID)
	second.Cost = -6.5
	second.Iteration = 300
	if err := store.SaveCheckpoint(jobID, second); err != nil {
		t.Fatalf("Second SaveCheckpoint failed: %v", err)
	}

	loaded, err := store.LoadCheckpoint(jobID)
	if err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}
	if loaded.Cost != -6.5 || loaded.Iteration != 300 {
		t.Errorf("Overwrite not applied: cost %v, iteration %d", loaded.Cost, loaded.Iteration)
	}
}
