// Package problem turns a persisted run configuration into the concrete
// pieces of an optimization run: a cost evaluator over the reference
// simulator, an update rule (or the global-search baseline), and starting
// parameters. Both the CLI and the job server build runs through it.
package problem

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/varqopt/internal/dataset"
	"github.com/cwbudde/varqopt/internal/driver"
	"github.com/cwbudde/varqopt/internal/hamiltonian"
	"github.com/cwbudde/varqopt/internal/opt"
	"github.com/cwbudde/varqopt/internal/sim"
	"github.com/cwbudde/varqopt/internal/store"
	"github.com/cwbudde/varqopt/internal/vqc"
)

// Problem kinds.
const (
	KindHamiltonian = "hamiltonian"
	KindMaxCut      = "maxcut"
	KindClassify    = "classify"
)

// Strategy names.
const (
	StrategyGD           = "gd"
	StrategyShift        = "shift"
	StrategyShotAdaptive = "shotadaptive"
	StrategyRotosolve    = "rotosolve"
	StrategyMayfly       = "mayfly"
)

// ApplyDefaults fills unset numeric fields with working values.
func ApplyDefaults(cfg store.RunConfig) store.RunConfig {
	if cfg.Layers <= 0 {
		cfg.Layers = 2
	}
	if cfg.Iters <= 0 {
		cfg.Iters = 100
	}
	if cfg.Step == 0 {
		cfg.Step = 0.1
	}
	if cfg.Shift == 0 {
		cfg.Shift = driver.DefaultShift
	}
	if cfg.MinShots <= 0 {
		cfg.MinShots = 10
	}
	if cfg.PopSize <= 0 {
		cfg.PopSize = 30
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyGD
	}
	return cfg
}

// Build assembles the evaluator for a run configuration. The returned
// Hamiltonian is nil for the classifier problem, which has no term
// structure.
func Build(cfg store.RunConfig) (driver.Evaluator, *hamiltonian.Hamiltonian, error) {
	switch cfg.Problem {
	case KindHamiltonian:
		h, err := hamiltonian.Parse(cfg.Hamiltonian)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse hamiltonian: %w", err)
		}
		circuit, err := sim.HardwareEfficient(h.NumQubits(), cfg.Layers)
		if err != nil {
			return nil, nil, err
		}
		ev, err := evaluatorFor(circuit, h, cfg)
		return ev, h, err

	case KindMaxCut:
		edges, err := hamiltonian.ParseEdges(cfg.Edges)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse edges: %w", err)
		}
		h, err := hamiltonian.MaxCut(edges)
		if err != nil {
			return nil, nil, err
		}
		circuit, err := sim.QAOA(h, cfg.Layers)
		if err != nil {
			return nil, nil, err
		}
		ev, err := evaluatorFor(circuit, h, cfg)
		return ev, h, err

	case KindClassify:
		d, err := dataset.Load(cfg.DataPath)
		if err != nil {
			return nil, nil, err
		}
		clf, err := vqc.New(d.Features(), cfg.Layers)
		if err != nil {
			return nil, nil, err
		}
		ev, err := clf.Evaluator(d)
		return ev, nil, err

	default:
		return nil, nil, fmt.Errorf("unknown problem %q", cfg.Problem)
	}
}

func evaluatorFor(circuit *sim.Circuit, h *hamiltonian.Hamiltonian, cfg store.RunConfig) (driver.Evaluator, error) {
	if cfg.Shots > 0 {
		return sim.NewSampled(circuit, h, cfg.Shots, cfg.Seed)
	}
	return sim.NewExact(circuit, h)
}

// Rule builds the update rule for the configured strategy. The mayfly
// baseline is not an update rule; use Run for it.
func Rule(cfg store.RunConfig, h *hamiltonian.Hamiltonian) (driver.UpdateRule, error) {
	switch cfg.Strategy {
	case StrategyGD:
		return driver.NewGradientDescent(cfg.Step)
	case StrategyShift:
		return driver.NewParameterShiftWithShift(cfg.Step, cfg.Shift)
	case StrategyShotAdaptive:
		if h == nil {
			return nil, fmt.Errorf("shotadaptive requires a term-structured cost")
		}
		if cfg.Shots <= 0 {
			return nil, fmt.Errorf("shotadaptive requires a shot budget")
		}
		return driver.NewShotAdaptive(cfg.Step, h.Coefficients(), cfg.Shots, cfg.MinShots)
	case StrategyRotosolve:
		return driver.NewRotosolve(), nil
	case StrategyMayfly:
		return nil, fmt.Errorf("mayfly is a global search, not an update rule")
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
}

// InitialParams draws small random starting angles, reproducible by seed.
func InitialParams(dim int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	params := make([]float64, dim)
	for i := range params {
		params[i] = (rng.Float64() - 0.5) * 0.2
	}
	return params
}

// cancelableEvaluator fails fast once its context is done, so a running
// loop unwinds at the next evaluation instead of finishing the iteration
// budget.
type cancelableEvaluator struct {
	ctx   context.Context
	inner driver.Evaluator
}

func (e *cancelableEvaluator) Dimension() int { return e.inner.Dimension() }

func (e *cancelableEvaluator) Evaluate(req driver.EvalRequest) (driver.Evaluation, error) {
	if err := e.ctx.Err(); err != nil {
		return driver.Evaluation{}, err
	}
	return e.inner.Evaluate(req)
}

// Run executes a full optimization for the configuration, dispatching
// between the driver's update rules and the mayfly baseline. initial may
// be nil to draw seeded starting angles; the observer may be nil.
// Cancelling the context surfaces as the context's error with the partial
// history gathered so far.
func Run(ctx context.Context, cfg store.RunConfig, initial []float64, obs driver.Observer) (*driver.Result, error) {
	cfg = ApplyDefaults(cfg)

	ev, h, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	ev = &cancelableEvaluator{ctx: ctx, inner: ev}
	if initial == nil {
		initial = InitialParams(ev.Dimension(), cfg.Seed)
	}

	if cfg.Strategy == StrategyMayfly {
		return runMayfly(cfg, initial, ev, obs)
	}

	rule, err := Rule(cfg, h)
	if err != nil {
		return nil, err
	}

	var opts []driver.Option
	if obs != nil {
		opts = append(opts, driver.WithObserver(obs))
	}
	d, err := driver.New(rule, cfg.Iters, cfg.Tolerance, opts...)
	if err != nil {
		return nil, err
	}
	return d.Run(initial, ev)
}

// runMayfly runs the population-based baseline and reshapes its output
// into a driver result: the initial cost at iteration 0 and the best
// found vector at iteration 1.
func runMayfly(cfg store.RunConfig, initial []float64, ev driver.Evaluator, obs driver.Observer) (*driver.Result, error) {
	if len(initial) != ev.Dimension() {
		return nil, &driver.ConfigError{
			Field:  "initial",
			Reason: "dimension mismatch",
			Detail: map[string]int{"got": len(initial), "want": ev.Dimension()},
		}
	}

	first, err := ev.Evaluate(driver.EvalRequest{Params: initial})
	if err != nil {
		return nil, err
	}

	obj, lastErr := opt.Objective(ev)
	lower, upper := opt.AngleBounds(ev.Dimension())
	optimizer := opt.NewMayfly(cfg.Iters, cfg.PopSize, cfg.Seed)

	best, bestCost := optimizer.Run(obj, lower, upper, ev.Dimension())
	if err := lastErr(); err != nil {
		return nil, err
	}

	res := &driver.Result{FinalParams: best, State: driver.StateMaxIterations}
	if math.IsInf(bestCost, 1) {
		res.State = driver.StateNumericalFailure
	}

	entries := []driver.HistoryEntry{
		{Iteration: 0, Params: append([]float64{}, initial...), Cost: first.Cost},
		{Iteration: 1, Params: append([]float64{}, best...), Cost: bestCost},
	}
	for _, e := range entries {
		res.History = append(res.History, e)
		if obs != nil {
			obs(e)
		}
	}
	return res, nil
}
