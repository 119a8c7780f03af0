package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/varqopt/internal/config"
	"github.com/cwbudde/varqopt/internal/dataset"
	"github.com/cwbudde/varqopt/internal/driver"
	"github.com/cwbudde/varqopt/internal/hamiltonian"
	"github.com/cwbudde/varqopt/internal/problem"
	"github.com/cwbudde/varqopt/internal/store"
	"github.com/cwbudde/varqopt/internal/vqc"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	runConfigPath  string
	runHamiltonian string
	runEdges       string
	runData        string
	runLayers      int
	runStrategy    string
	runIters       int
	runTol         float64
	runStep        float64
	runShift       float64
	runShots       int
	runMinShots    int
	runPop         int
	runSeed        int64
	runDataDir     string
	runTrace       bool
	runCheckpoint  bool
	runLogEvery    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single optimization",
	Long: `Runs one optimization loop over the selected cost function and
prints the final parameters and cost. Exactly one of --hamiltonian,
--edges, or --data selects the problem, unless a config file sets it.`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "YAML run file (flags override its values)")
	runCmd.Flags().StringVar(&runHamiltonian, "hamiltonian", "", "Pauli-sum cost, e.g. \"2*X1 + 4*Z1 - X0X2\"")
	runCmd.Flags().StringVar(&runEdges, "edges", "", "MaxCut edge list, e.g. \"0-1,1-2,0-2\"")
	runCmd.Flags().StringVar(&runData, "data", "", "Packed dataset file for classification")
	runCmd.Flags().IntVar(&runLayers, "layers", 2, "Ansatz layers")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "gd", "Update rule: gd, shift, shotadaptive, rotosolve, mayfly")
	runCmd.Flags().IntVar(&runIters, "iters", 100, "Max iterations")
	runCmd.Flags().Float64Var(&runTol, "tol", 1e-8, "Convergence tolerance on successive costs")
	runCmd.Flags().Float64Var(&runStep, "step", 0.1, "Gradient step size")
	runCmd.Flags().Float64Var(&runShift, "shift", driver.DefaultShift, "Parameter-shift offset in radians")
	runCmd.Flags().IntVar(&runShots, "shots", 0, "Shots per expectation value (0 = exact)")
	runCmd.Flags().IntVar(&runMinShots, "min-shots", 10, "Per-term shot floor for shotadaptive")
	runCmd.Flags().IntVar(&runPop, "pop", 30, "Population size for mayfly")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Random seed")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "./data", "Base directory for traces and checkpoints")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "Write a JSONL convergence trace")
	runCmd.Flags().BoolVar(&runCheckpoint, "checkpoint", false, "Save a resumable checkpoint at the end")
	runCmd.Flags().IntVar(&runLogEvery, "log-every", 10, "Log progress every N iterations")

	rootCmd.AddCommand(runCmd)
}

// buildRunConfig merges the optional config file with the command flags.
// Flags set explicitly on the command line win over file values.
func buildRunConfig(cmd *cobra.Command) (store.RunConfig, error) {
	var cfg store.RunConfig
	if runConfigPath != "" {
		var err error
		cfg, err = config.Load(runConfigPath)
		if err != nil {
			return store.RunConfig{}, err
		}
	}

	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if set("hamiltonian") {
		cfg.Hamiltonian = runHamiltonian
	}
	if set("edges") {
		cfg.Edges = runEdges
	}
	if set("data") {
		cfg.DataPath = runData
	}
	if set("layers") || cfg.Layers == 0 {
		cfg.Layers = runLayers
	}
	if set("strategy") || cfg.Strategy == "" {
		cfg.Strategy = runStrategy
	}
	if set("iters") || cfg.Iters == 0 {
		cfg.Iters = runIters
	}
	if set("tol") || cfg.Tolerance == 0 {
		cfg.Tolerance = runTol
	}
	if set("step") || cfg.Step == 0 {
		cfg.Step = runStep
	}
	if set("shift") || cfg.Shift == 0 {
		cfg.Shift = runShift
	}
	if set("shots") {
		cfg.Shots = runShots
	}
	if set("min-shots") || cfg.MinShots == 0 {
		cfg.MinShots = runMinShots
	}
	if set("pop") || cfg.PopSize == 0 {
		cfg.PopSize = runPop
	}
	if set("seed") || cfg.Seed == 0 {
		cfg.Seed = runSeed
	}

	if cfg.Problem == "" {
		switch {
		case cfg.Hamiltonian != "":
			cfg.Problem = problem.KindHamiltonian
		case cfg.Edges != "":
			cfg.Problem = problem.KindMaxCut
		case cfg.DataPath != "":
			cfg.Problem = problem.KindClassify
		default:
			return store.RunConfig{}, fmt.Errorf("one of --hamiltonian, --edges, or --data is required")
		}
	}
	return cfg, nil
}

func runOptimization(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New().String()
	slog.Info("Starting optimization",
		"run_id", runID,
		"problem", cfg.Problem,
		"strategy", cfg.Strategy,
		"iters", cfg.Iters,
	)

	var trace *store.TraceWriter
	if runTrace {
		trace, err = store.NewTraceWriter(runDataDir, runID, false)
		if err != nil {
			return err
		}
		defer trace.Close()
	}

	observer := func(entry driver.HistoryEntry) {
		if trace != nil {
			trace.Write(store.TraceEntry{
				Iteration: entry.Iteration,
				Cost:      entry.Cost,
				Timestamp: time.Now(),
				Params:    entry.Params,
			})
		}
		if runLogEvery > 0 && entry.Iteration%runLogEvery == 0 {
			slog.Info("Progress", "iteration", entry.Iteration, "cost", entry.Cost)
		}
	}

	start := time.Now()
	result, err := problem.Run(ctx, cfg, nil, observer)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	best := result.BestEntry()
	initial := result.History[0].Cost

	slog.Info("Optimization complete",
		"run_id", runID,
		"elapsed", elapsed,
		"terminal", result.State,
		"initial_cost", initial,
		"best_cost", best.Cost,
	)

	fmt.Printf("Run %s: %s after %d iterations (cost %.6g -> %.6g, %s)\n",
		runID, result.State, len(result.History)-1, initial, best.Cost, elapsed.Round(time.Millisecond))

	if err := reportProblemSummary(cfg, best); err != nil {
		slog.Warn("Failed to build problem summary", "error", err)
	}

	if runCheckpoint {
		fsStore, err := store.NewFSStore(runDataDir)
		if err != nil {
			return err
		}
		checkpoint := store.NewCheckpoint(runID, best.Params, best.Cost, initial, best.Iteration, problem.ApplyDefaults(cfg))
		if err := fsStore.SaveCheckpoint(runID, checkpoint); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}
		fmt.Printf("Checkpoint saved, resume with: varqopt resume %s\n", runID)
	}

	return nil
}

// reportProblemSummary prints the domain reading of the best cost: the
// expected cut size for MaxCut, the training accuracy for classification.
func reportProblemSummary(cfg store.RunConfig, best driver.HistoryEntry) error {
	switch cfg.Problem {
	case problem.KindMaxCut:
		edges, err := hamiltonian.ParseEdges(cfg.Edges)
		if err != nil {
			return err
		}
		cut := -(best.Cost + hamiltonian.MaxCutOffset(edges))
		fmt.Printf("Expected cut size: %.3f of %d edges\n", cut, len(edges))

	case problem.KindClassify:
		d, err := dataset.Load(cfg.DataPath)
		if err != nil {
			return err
		}
		clf, err := vqc.New(d.Features(), cfg.Layers)
		if err != nil {
			return err
		}
		acc, err := clf.Accuracy(best.Params, d.XTrain, d.YTrain)
		if err != nil {
			return err
		}
		fmt.Printf("Training accuracy: %.1f%%\n", acc*100)
	}
	return nil
}
