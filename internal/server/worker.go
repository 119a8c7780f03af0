package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cwbudde/varqopt/internal/driver"
	"github.com/cwbudde/varqopt/internal/problem"
	"github.com/cwbudde/varqopt/internal/store"
)

// runJob executes an optimization job in the background. traceDir is the
// store's base directory; the convergence trace is written beneath it. If
// checkpointStore is not nil and the job has checkpointInterval > 0,
// periodic checkpoints are saved from the job's best-so-far state.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, traceDir, jobID string) error {
	defer jm.releaseCancel(jobID)

	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	}); err != nil {
		return err
	}

	cfg := problem.ApplyDefaults(job.Config)
	slog.Info("Starting job", "job_id", jobID, "problem", cfg.Problem, "strategy", cfg.Strategy)

	var trace *store.TraceWriter
	if traceDir != "" {
		var err error
		trace, err = store.NewTraceWriter(traceDir, jobID, false)
		if err != nil {
			markJobFailed(jm, jobID, fmt.Errorf("failed to open trace: %w", err))
			return err
		}
		defer trace.Close()
	}

	// Checkpoint goroutine snapshots the job's best state on a timer.
	checkpointDone := make(chan struct{})
	var checkpointWG sync.WaitGroup
	if checkpointStore != nil && cfg.CheckpointInterval > 0 {
		checkpointWG.Add(1)
		go func() {
			defer checkpointWG.Done()
			monitorCheckpoints(ctx, jm, checkpointStore, cfg, jobID, checkpointDone)
		}()
	}

	observer := func(entry driver.HistoryEntry) {
		jm.UpdateJob(jobID, func(j *Job) {
			j.Iterations = entry.Iteration
			if entry.Iteration == 0 {
				j.InitialCost = entry.Cost
				j.BestCost = entry.Cost
				j.BestParams = entry.Params
			} else if entry.Cost < j.BestCost {
				j.BestCost = entry.Cost
				j.BestParams = entry.Params
			}
		})

		if trace != nil {
			if err := trace.Write(store.TraceEntry{
				Iteration: entry.Iteration,
				Cost:      entry.Cost,
				Timestamp: time.Now(),
				Params:    entry.Params,
			}); err != nil {
				slog.Warn("Failed to write trace entry", "job_id", jobID, "error", err)
			}
		}

		job, _ := jm.GetJob(jobID)
		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:     jobID,
			State:     StateRunning,
			Iteration: entry.Iteration,
			Cost:      entry.Cost,
			BestCost:  job.BestCost,
			Timestamp: time.Now(),
		})
	}

	start := time.Now()
	result, err := problem.Run(ctx, cfg, nil, observer)

	close(checkpointDone)
	checkpointWG.Wait()

	if trace != nil {
		trace.Flush()
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			markJobCancelled(jm, jobID)
			return err
		}
		markJobFailed(jm, jobID, err)
		return err
	}

	best := result.BestEntry()
	endTime := time.Now()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.BestParams = best.Params
		j.BestCost = best.Cost
		j.Iterations = result.History[len(result.History)-1].Iteration
		j.Terminal = result.State
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	if checkpointStore != nil {
		if err := saveCheckpoint(jm, checkpointStore, cfg, jobID); err != nil {
			slog.Warn("Failed to save final checkpoint", "job_id", jobID, "error", err)
		}
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", time.Since(start),
		"terminal", result.State,
		"best_cost", best.Cost,
	)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCompleted,
		Iteration: result.History[len(result.History)-1].Iteration,
		Cost:      result.History[len(result.History)-1].Cost,
		BestCost:  best.Cost,
		Terminal:  result.State,
		Timestamp: time.Now(),
	})

	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateFailed,
		Timestamp: endTime,
	})
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCancelled,
		Timestamp: endTime,
	})
}

// monitorCheckpoints periodically saves checkpoints during optimization
func monitorCheckpoints(ctx context.Context, jm *JobManager, checkpointStore store.Store, cfg JobConfig, jobID string, done chan struct{}) {
	interval := time.Duration(cfg.CheckpointInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := saveCheckpoint(jm, checkpointStore, cfg, jobID); err != nil {
				slog.Error("Failed to save checkpoint", "job_id", jobID, "error", err)
			}
		}
	}
}

// saveCheckpoint saves the job's best-so-far state as a checkpoint.
func saveCheckpoint(jm *JobManager, checkpointStore store.Store, cfg JobConfig, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if len(job.BestParams) == 0 {
		slog.Debug("Skipping checkpoint, no best params yet", "job_id", jobID)
		return nil
	}

	checkpoint := store.NewCheckpoint(
		jobID,
		job.BestParams,
		job.BestCost,
		job.InitialCost,
		job.Iterations,
		cfg,
	)

	if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	slog.Debug("Checkpoint saved",
		"job_id", jobID,
		"iteration", job.Iterations,
		"best_cost", job.BestCost,
	)
	return nil
}
