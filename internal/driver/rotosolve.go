package driver

import "math"

// Rotosolve updates one coordinate per step in closed form, assuming the
// cost is sinusoidal in each parameter taken individually:
//
//	f(θ) = a + b·cos(θ − φ)
//
// Three evaluations (at θ, θ+π/2, θ−π/2) determine the sinusoid, and the
// coordinate jumps straight to its minimizer. Coordinates are cycled
// across successive steps.
type Rotosolve struct {
	next int
}

// NewRotosolve creates a coordinate-wise exact minimization rule.
func NewRotosolve() *Rotosolve {
	return &Rotosolve{}
}

// Name implements UpdateRule.
func (r *Rotosolve) Name() string { return "rotosolve" }

// ProposeStep solves the current coordinate exactly and advances the cycle.
// Four evaluations per step: three for the sinusoid fit, one for the
// observed cost at the updated vector.
func (r *Rotosolve) ProposeStep(params []float64, ev Evaluator) ([]float64, float64, error) {
	i := r.next % len(params)
	r.next++

	probe := append([]float64{}, params...)

	at, err := ev.Evaluate(EvalRequest{Params: probe})
	if err != nil {
		return nil, 0, err
	}

	probe[i] = params[i] + math.Pi/2
	plus, err := ev.Evaluate(EvalRequest{Params: probe})
	if err != nil {
		return nil, 0, err
	}

	probe[i] = params[i] - math.Pi/2
	minus, err := ev.Evaluate(EvalRequest{Params: probe})
	if err != nil {
		return nil, 0, err
	}

	// Minimizer of a + b·cos(θ − φ) from the three samples.
	theta := params[i] - math.Pi/2 -
		math.Atan2(2*at.Cost-plus.Cost-minus.Cost, plus.Cost-minus.Cost)

	// Keep angles in (−π, π] so parameters stay bounded across cycles.
	for theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}

	next := append([]float64{}, params...)
	next[i] = theta

	updated, err := ev.Evaluate(EvalRequest{Params: next})
	if err != nil {
		return nil, 0, err
	}
	return next, updated.Cost, nil
}
