package driver

import "math"

// DefaultShift is the canonical shift constant for standard rotation
// generators (eigenvalues ±1/2), giving a gradient scale of 1/√2.
const DefaultShift = math.Pi / 4

// ParameterShift estimates gradients with the parameter-shift rule:
// each partial derivative is (f(θ+s) − f(θ−s)) / (2·sin s), exact for
// costs that are sinusoidal in each parameter. It needs no analytic
// gradient from the evaluator, at the price of 2 evaluations per
// parameter per step plus one for the cost at the stepped vector.
type ParameterShift struct {
	// Step is the learning rate applied to the estimated gradient.
	Step float64

	// Shift is the shift constant s. Must satisfy sin(s) != 0.
	Shift float64

	// Shots, when non-nil, is forwarded to every shifted evaluation so
	// stochastic evaluators can budget their measurements.
	Shots map[string]int
}

// NewParameterShift creates a parameter-shift rule with the default π/4 shift.
func NewParameterShift(step float64) (*ParameterShift, error) {
	return NewParameterShiftWithShift(step, DefaultShift)
}

// NewParameterShiftWithShift creates a parameter-shift rule with an explicit
// shift constant.
func NewParameterShiftWithShift(step, shift float64) (*ParameterShift, error) {
	if step <= 0 {
		return nil, &ConfigError{Field: "step", Reason: "must be positive"}
	}
	// sin of a float64 near a multiple of π is tiny but non-zero, so an
	// exact comparison would admit gradient scales around 1e16.
	if math.IsNaN(shift) || math.IsInf(shift, 0) || math.Abs(math.Sin(shift)) < 1e-9 {
		return nil, &ConfigError{Field: "shift", Reason: "sin(shift) must be non-zero"}
	}
	return &ParameterShift{Step: step, Shift: shift}, nil
}

// Name implements UpdateRule.
func (p *ParameterShift) Name() string { return "shift" }

// Gradient estimates the full gradient at params using 2·d evaluations.
func (p *ParameterShift) Gradient(params []float64, ev Evaluator) ([]float64, error) {
	scale := 1 / (2 * math.Sin(p.Shift))
	grad := make([]float64, len(params))
	shifted := append([]float64{}, params...)

	for i := range params {
		shifted[i] = params[i] + p.Shift
		plus, err := ev.Evaluate(EvalRequest{Params: shifted, Shots: p.Shots})
		if err != nil {
			return nil, err
		}

		shifted[i] = params[i] - p.Shift
		minus, err := ev.Evaluate(EvalRequest{Params: shifted, Shots: p.Shots})
		if err != nil {
			return nil, err
		}

		shifted[i] = params[i]
		grad[i] = scale * (plus.Cost - minus.Cost)
	}
	return grad, nil
}

// ProposeStep estimates the gradient via shifted evaluations, descends,
// and reports the cost at the stepped vector.
func (p *ParameterShift) ProposeStep(params []float64, ev Evaluator) ([]float64, float64, error) {
	grad, err := p.Gradient(params, ev)
	if err != nil {
		return nil, 0, err
	}

	next := make([]float64, len(params))
	for i := range params {
		next[i] = params[i] - p.Step*grad[i]
	}
	eval, err := ev.Evaluate(EvalRequest{Params: next, Shots: p.Shots})
	if err != nil {
		return nil, 0, err
	}
	return next, eval.Cost, nil
}
