package store

import (
	"errors"
	"io"
	"testing"
	"time"
)

func TestTraceWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	jobID := "trace-run"

	tw, err := NewTraceWriter(dir, jobID, false)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}

	entries := []TraceEntry{
		{Iteration: 0, Cost: 1.0, Timestamp: time.Now()},
		{Iteration: 1, Cost: 0.4, Timestamp: time.Now(), Params: []float64{0.3, -0.1}},
		{Iteration: 2, Cost: -0.2, Timestamp: time.Now()},
	}
	for _, e := range entries {
		if err := tw.Write(e); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(dir, jobID)
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	got, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(got))
	}
	for i := range got {
		if got[i].Iteration != entries[i].Iteration || got[i].Cost != entries[i].Cost {
			t.Errorf("Entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
	if got[1].Params == nil || got[1].Params[0] != 0.3 {
		t.Errorf("Params not round-tripped: %+v", got[1])
	}
	if got[0].Params != nil {
		t.Errorf("Expected omitted params, got %v", got[0].Params)
	}
}

func TestTraceAppendMode(t *testing.T) {
	dir := t.TempDir()
	jobID := "append-run"

	tw, err := NewTraceWriter(dir, jobID, false)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	tw.Write(TraceEntry{Iteration: 0, Cost: 1, Timestamp: time.Now()})
	tw.Close()

	// Reopen in append mode, as resume does.
	tw, err = NewTraceWriter(dir, jobID, true)
	if err != nil {
		t.Fatalf("NewTraceWriter (append) failed: %v", err)
	}
	tw.Write(TraceEntry{Iteration: 1, Cost: 0.5, Timestamp: time.Now()})
	tw.Close()

	tr, err := NewTraceReader(dir, jobID)
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	got, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries after append, got %d", len(got))
	}
}

func TestTraceReaderNotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTraceReadSequential(t *testing.T) {
	dir := t.TempDir()
	jobID := "seq-run"

	tw, _ := NewTraceWriter(dir, jobID, false)
	tw.Write(TraceEntry{Iteration: 0, Cost: 2, Timestamp: time.Now()})
	tw.Close()

	tr, err := NewTraceReader(dir, jobID)
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	if _, err := tr.Read(); err != nil {
		t.Fatalf("First Read failed: %v", err)
	}
	if _, err := tr.Read(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}
