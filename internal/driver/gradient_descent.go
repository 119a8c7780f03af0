package driver

import "fmt"

// GradientDescent performs plain gradient descent using the analytic
// gradient supplied by the evaluator. Two evaluator calls per step: one
// for the gradient at the current vector, one for the cost at the
// stepped vector.
type GradientDescent struct {
	// Step is the learning rate applied to the gradient.
	Step float64
}

// NewGradientDescent creates a gradient descent rule with the given step size.
func NewGradientDescent(step float64) (*GradientDescent, error) {
	if step <= 0 {
		return nil, &ConfigError{Field: "step", Reason: "must be positive"}
	}
	return &GradientDescent{Step: step}, nil
}

// Name implements UpdateRule.
func (g *GradientDescent) Name() string { return "gd" }

// ProposeStep evaluates the gradient at params, descends, and reports
// the cost at the stepped vector.
func (g *GradientDescent) ProposeStep(params []float64, ev Evaluator) ([]float64, float64, error) {
	eval, err := ev.Evaluate(EvalRequest{Params: params})
	if err != nil {
		return nil, 0, err
	}
	if !isFinite(eval.Cost) {
		// Hand the non-finite cost back so the loop can classify the
		// breakdown instead of surfacing a gradient error.
		return append([]float64{}, params...), eval.Cost, nil
	}
	if eval.Gradient == nil {
		return nil, 0, fmt.Errorf("gradient descent requires an evaluator with analytic gradients")
	}
	if len(eval.Gradient) != len(params) {
		return nil, 0, fmt.Errorf("gradient length %d does not match parameter length %d", len(eval.Gradient), len(params))
	}

	next := make([]float64, len(params))
	for i := range params {
		next[i] = params[i] - g.Step*eval.Gradient[i]
	}
	stepped, err := ev.Evaluate(EvalRequest{Params: next})
	if err != nil {
		return nil, 0, err
	}
	return next, stepped.Cost, nil
}
