package driver

import (
	"log/slog"
	"math"
)

// TerminalState describes how an optimization run ended.
type TerminalState string

const (
	// StateConverged means successive costs came within the configured tolerance.
	StateConverged TerminalState = "converged"

	// StateMaxIterations means the iteration cap was reached before convergence.
	StateMaxIterations TerminalState = "max_iterations"

	// StateNumericalFailure means the evaluator produced a non-finite cost or
	// gradient and the loop halted early.
	StateNumericalFailure TerminalState = "numerical_failure"
)

// HistoryEntry is one point of the convergence record.
type HistoryEntry struct {
	Iteration int       `json:"iteration"`
	Params    []float64 `json:"params"`
	Cost      float64   `json:"cost"`
}

// Result holds the output of an optimization run.
type Result struct {
	FinalParams []float64
	History     []HistoryEntry
	State       TerminalState
}

// BestEntry returns the history entry with the lowest cost.
// The zero entry is returned for an empty history.
func (r *Result) BestEntry() HistoryEntry {
	var best HistoryEntry
	best.Cost = math.Inf(1)
	for _, e := range r.History {
		if e.Cost < best.Cost {
			best = e
		}
	}
	return best
}

// Observer receives each history entry as it is recorded. Observers run
// synchronously inside the loop and must not mutate the entry's params.
type Observer func(HistoryEntry)

// Driver runs a hybrid optimization loop: it repeatedly asks an update rule
// to propose a new parameter vector against an external cost evaluator,
// records the convergence history, and stops on convergence, iteration cap,
// or numerical failure.
type Driver struct {
	rule      UpdateRule
	maxIters  int
	tolerance float64
	observer  Observer
}

// Option configures a Driver.
type Option func(*Driver)

// WithObserver registers a per-iteration observer.
func WithObserver(obs Observer) Option {
	return func(d *Driver) { d.observer = obs }
}

// New creates a Driver for the given update rule.
// maxIters must be positive and tolerance non-negative.
func New(rule UpdateRule, maxIters int, tolerance float64, opts ...Option) (*Driver, error) {
	if rule == nil {
		return nil, &ConfigError{Field: "rule", Reason: "cannot be nil"}
	}
	if maxIters <= 0 {
		return nil, &ConfigError{Field: "maxIters", Reason: "must be positive"}
	}
	if tolerance < 0 || math.IsNaN(tolerance) {
		return nil, &ConfigError{Field: "tolerance", Reason: "must be non-negative"}
	}
	d := &Driver{
		rule:      rule,
		maxIters:  maxIters,
		tolerance: tolerance,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run executes the optimization loop starting from initial.
//
// The initial vector is validated against the evaluator's dimension before
// any evaluation is attempted; a mismatch is a ConfigError. Evaluator errors
// propagate verbatim together with the history gathered so far. A non-finite
// cost terminates the loop with StateNumericalFailure and a nil error.
func (d *Driver) Run(initial []float64, ev Evaluator) (*Result, error) {
	if ev == nil {
		return nil, &ConfigError{Field: "evaluator", Reason: "cannot be nil"}
	}
	if dim := ev.Dimension(); len(initial) != dim {
		return nil, &ConfigError{
			Field:  "initial",
			Reason: "dimension mismatch",
			Detail: map[string]int{"got": len(initial), "want": dim},
		}
	}

	params := append([]float64{}, initial...)
	res := &Result{FinalParams: params}

	eval, err := ev.Evaluate(EvalRequest{Params: params})
	if err != nil {
		return res, err
	}
	d.record(res, 0, params, eval.Cost)

	if !isFinite(eval.Cost) {
		res.State = StateNumericalFailure
		slog.Warn("Non-finite initial cost, stopping", "cost", eval.Cost)
		return res, nil
	}

	prevCost := eval.Cost
	res.State = StateMaxIterations

	for iter := 1; iter <= d.maxIters; iter++ {
		newParams, cost, err := d.rule.ProposeStep(params, ev)
		if err != nil {
			res.FinalParams = params
			return res, err
		}

		params = newParams
		res.FinalParams = params
		d.record(res, iter, params, cost)

		if !isFinite(cost) || !finiteVec(params) {
			res.State = StateNumericalFailure
			slog.Warn("Numerical failure, stopping", "iteration", iter, "cost", cost)
			return res, nil
		}

		if math.Abs(cost-prevCost) <= d.tolerance {
			res.State = StateConverged
			slog.Debug("Converged", "iteration", iter, "cost", cost)
			return res, nil
		}
		prevCost = cost
	}

	return res, nil
}

// record appends a snapshot of the current iteration to the history and
// notifies the observer, if any.
func (d *Driver) record(res *Result, iter int, params []float64, cost float64) {
	entry := HistoryEntry{
		Iteration: iter,
		Params:    append([]float64{}, params...),
		Cost:      cost,
	}
	res.History = append(res.History, entry)
	if d.observer != nil {
		d.observer(entry)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec(v []float64) bool {
	for _, x := range v {
		if !isFinite(x) {
			return false
		}
	}
	return true
}
