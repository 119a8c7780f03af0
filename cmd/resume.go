package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/varqopt/internal/driver"
	"github.com/cwbudde/varqopt/internal/problem"
	"github.com/cwbudde/varqopt/internal/store"
	"github.com/spf13/cobra"
)

var (
	resumeDataDir  string
	resumeIters    int
	resumeTol      float64
	resumeStrategy string
	resumeTrace    bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume an optimization from a checkpoint",
	Long: `Continues an optimization from a saved checkpoint. The problem
definition and ansatz shape must match the checkpoint; iteration budget
and strategy knobs may be overridden. The update rule restarts fresh
from the saved parameters.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Base directory for traces and checkpoints")
	resumeCmd.Flags().IntVar(&resumeIters, "iters", 0, "Max iterations for the continuation (0 = from checkpoint)")
	resumeCmd.Flags().Float64Var(&resumeTol, "tol", 0, "Convergence tolerance (0 = from checkpoint)")
	resumeCmd.Flags().StringVar(&resumeStrategy, "strategy", "", "Update rule override (empty = from checkpoint)")
	resumeCmd.Flags().BoolVar(&resumeTrace, "trace", true, "Append to the run's JSONL convergence trace")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	fsStore, err := store.NewFSStore(resumeDataDir)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	checkpoint, err := fsStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	cfg := checkpoint.Config
	if resumeIters > 0 {
		cfg.Iters = resumeIters
	}
	if resumeTol > 0 {
		cfg.Tolerance = resumeTol
	}
	if resumeStrategy != "" {
		cfg.Strategy = resumeStrategy
	}

	if err := checkpoint.IsCompatible(cfg); err != nil {
		return fmt.Errorf("cannot resume: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Resuming optimization",
		"job_id", jobID,
		"from_iteration", checkpoint.Iteration,
		"from_cost", checkpoint.Cost,
		"strategy", cfg.Strategy,
	)

	var trace *store.TraceWriter
	if resumeTrace {
		trace, err = store.NewTraceWriter(resumeDataDir, jobID, true)
		if err != nil {
			return err
		}
		defer trace.Close()
	}

	// Trace iterations continue where the checkpoint left off.
	base := checkpoint.Iteration
	observer := func(entry driver.HistoryEntry) {
		if trace != nil {
			trace.Write(store.TraceEntry{
				Iteration: base + entry.Iteration,
				Cost:      entry.Cost,
				Timestamp: time.Now(),
				Params:    entry.Params,
			})
		}
	}

	start := time.Now()
	result, err := problem.Run(ctx, cfg, checkpoint.Params, observer)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	best := result.BestEntry()
	if best.Cost > checkpoint.Cost {
		// The continuation never regresses the persisted best.
		best = driver.HistoryEntry{Iteration: 0, Params: checkpoint.Params, Cost: checkpoint.Cost}
	}

	updated := store.NewCheckpoint(jobID, best.Params, best.Cost, checkpoint.InitialCost, base+len(result.History)-1, problem.ApplyDefaults(cfg))
	if err := fsStore.SaveCheckpoint(jobID, updated); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	slog.Info("Resume complete",
		"job_id", jobID,
		"elapsed", elapsed,
		"terminal", result.State,
		"best_cost", best.Cost,
	)

	fmt.Printf("Resumed %s: %s (cost %.6g -> %.6g, %s)\n",
		jobID, result.State, checkpoint.Cost, best.Cost, elapsed.Round(time.Millisecond))
	return nil
}
