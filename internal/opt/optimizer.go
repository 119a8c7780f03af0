package opt

import (
	"math"

	"github.com/cwbudde/varqopt/internal/driver"
)

// Optimizer is a gradient-free global search over a bounded parameter box.
// It complements the driver's local update rules as a baseline strategy.
type Optimizer interface {
	// Run minimizes eval over the box [lower, upper] in dim dimensions
	// and returns the best parameters and cost found.
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64)
}

// AngleBounds returns the ±π box used for variational rotation angles.
func AngleBounds(dim int) (lower, upper []float64) {
	lower = make([]float64, dim)
	upper = make([]float64, dim)
	for i := range lower {
		lower[i] = -math.Pi
		upper[i] = math.Pi
	}
	return lower, upper
}

// Objective adapts a driver evaluator into the plain objective function a
// global optimizer consumes. Evaluator failures surface as +Inf cost so
// the search steers away from them; the last error is retained for the
// caller to inspect after the run.
func Objective(ev driver.Evaluator) (func([]float64) float64, func() error) {
	var lastErr error
	obj := func(params []float64) float64 {
		eval, err := ev.Evaluate(driver.EvalRequest{Params: params})
		if err != nil {
			lastErr = err
			return math.Inf(1)
		}
		return eval.Cost
	}
	return obj, func() error { return lastErr }
}
