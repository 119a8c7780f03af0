package store

import (
	"fmt"
	"time"
)

// RunConfig holds the full configuration of an optimization run
// (checkpoint copy). This avoids import cycles with the server package.
type RunConfig struct {
	// Problem selects the cost construction: hamiltonian, maxcut, classify.
	Problem string `json:"problem"`

	// Hamiltonian is the Pauli-sum text for the hamiltonian problem.
	Hamiltonian string `json:"hamiltonian,omitempty"`

	// Edges is the edge list for the maxcut problem, e.g. "0-1,1-2".
	Edges string `json:"edges,omitempty"`

	// DataPath is the packed dataset file for the classify problem.
	DataPath string `json:"dataPath,omitempty"`

	// Layers is the ansatz depth.
	Layers int `json:"layers"`

	// Strategy selects the update rule: gd, shift, shotadaptive,
	// rotosolve, or the mayfly global-search baseline.
	Strategy string `json:"strategy"`

	Iters     int     `json:"iters"`
	Tolerance float64 `json:"tolerance"`
	Step      float64 `json:"step,omitempty"`
	Shift     float64 `json:"shift,omitempty"`
	Shots     int     `json:"shots,omitempty"`
	MinShots  int     `json:"minShots,omitempty"`
	PopSize   int     `json:"popSize,omitempty"`
	Seed      int64   `json:"seed"`

	// CheckpointInterval saves a checkpoint every N seconds (0 = disabled).
	CheckpointInterval int `json:"checkpointInterval,omitempty"`
}

// Checkpoint is a saved optimization state that can be resumed later.
//
// Only the best parameter vector and its cost are persisted, not the
// update rule's internal state (variance EMAs, coordinate cycle position,
// optimizer populations). Resuming restarts the rule fresh from the saved
// parameters: the best cost never regresses, but the trajectory is not a
// perfect continuation. Serializing rule internals would tie the
// checkpoint format to each strategy for little benefit.
type Checkpoint struct {
	// JobID is the unique identifier for this optimization run.
	JobID string `json:"jobId"`

	// Params is the best parameter vector found so far.
	Params []float64 `json:"params"`

	// Cost is the cost achieved by Params.
	Cost float64 `json:"cost"`

	// InitialCost is the cost at the starting parameters, for tracking
	// improvement.
	InitialCost float64 `json:"initialCost"`

	// Iteration is the iteration count when this checkpoint was created.
	Iteration int `json:"iteration"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the run configuration, needed for validation during
	// resume. Resumed runs must use compatible settings (same problem,
	// same ansatz shape).
	Config RunConfig `json:"config"`
}

// CheckpointInfo is checkpoint metadata without the parameter payload.
// Used for listing checkpoints without loading large parameter arrays.
type CheckpointInfo struct {
	JobID     string    `json:"jobId"`
	Cost      float64   `json:"cost"`
	Iteration int       `json:"iteration"`
	Timestamp time.Time `json:"timestamp"`
	Problem   string    `json:"problem"`
	Strategy  string    `json:"strategy"`
	Layers    int       `json:"layers"`
}

// NewCheckpoint creates a checkpoint from run state.
func NewCheckpoint(jobID string, params []float64, cost, initialCost float64, iteration int, config RunConfig) *Checkpoint {
	return &Checkpoint{
		JobID:       jobID,
		Params:      append([]float64{}, params...),
		Cost:        cost,
		InitialCost: initialCost,
		Iteration:   iteration,
		Timestamp:   time.Now(),
		Config:      config,
	}
}

// ToInfo converts a full Checkpoint to its metadata view.
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:     c.JobID,
		Cost:      c.Cost,
		Iteration: c.Iteration,
		Timestamp: c.Timestamp,
		Problem:   c.Config.Problem,
		Strategy:  c.Config.Strategy,
		Layers:    c.Config.Layers,
	}
}

// Validate checks if the checkpoint has valid data.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if len(c.Params) == 0 {
		return &ValidationError{Field: "Params", Reason: "cannot be empty"}
	}
	if c.Iteration < 0 {
		return &ValidationError{Field: "Iteration", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.Problem == "" {
		return &ValidationError{Field: "Config.Problem", Reason: "cannot be empty"}
	}
	if c.Config.Strategy == "" {
		return &ValidationError{Field: "Config.Strategy", Reason: "cannot be empty"}
	}
	if c.Config.Iters <= 0 {
		return &ValidationError{Field: "Config.Iters", Reason: "must be positive"}
	}
	if c.Config.Layers <= 0 {
		return &ValidationError{Field: "Config.Layers", Reason: "must be positive"}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resumed with the given
// config. The problem definition and ansatz shape must match; iteration
// counts and strategy knobs may differ.
func (c *Checkpoint) IsCompatible(config RunConfig) error {
	if c.Config.Problem != config.Problem {
		return &CompatibilityError{Field: "Problem", Expected: c.Config.Problem, Actual: config.Problem}
	}
	if c.Config.Hamiltonian != config.Hamiltonian {
		return &CompatibilityError{Field: "Hamiltonian", Expected: c.Config.Hamiltonian, Actual: config.Hamiltonian}
	}
	if c.Config.Edges != config.Edges {
		return &CompatibilityError{Field: "Edges", Expected: c.Config.Edges, Actual: config.Edges}
	}
	if c.Config.DataPath != config.DataPath {
		return &CompatibilityError{Field: "DataPath", Expected: c.Config.DataPath, Actual: config.DataPath}
	}
	if c.Config.Layers != config.Layers {
		return &CompatibilityError{
			Field:    "Layers",
			Expected: fmt.Sprintf("%d", c.Config.Layers),
			Actual:   fmt.Sprintf("%d", config.Layers),
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
