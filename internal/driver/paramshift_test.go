package driver

import (
	"math"
	"testing"
)

// cosine is the single-parameter cost f(θ) = cos(θ), whose exact
// derivative is −sin(θ).
var cosine = EvaluatorFunc{Dim: 1, Func: func(p []float64) (float64, error) {
	return math.Cos(p[0]), nil
}}

func TestParameterShiftValidation(t *testing.T) {
	if _, err := NewParameterShift(0); err == nil {
		t.Error("Expected error for non-positive step")
	}
	if _, err := NewParameterShiftWithShift(0.1, 0); err == nil {
		t.Error("Expected error for zero shift")
	}
	if _, err := NewParameterShiftWithShift(0.1, math.Pi); err == nil {
		t.Error("Expected error for shift with sin(s) == 0")
	}
	// sin(2π) is ~ -2.4e-16 in float64, not exactly zero; the guard must
	// still reject it.
	if _, err := NewParameterShiftWithShift(0.1, 2*math.Pi); err == nil {
		t.Error("Expected error for shift of 2π")
	}
}

func TestParameterShiftMatchesAnalyticDerivative(t *testing.T) {
	rule, err := NewParameterShift(0.1)
	if err != nil {
		t.Fatalf("NewParameterShift failed: %v", err)
	}

	points := []float64{0, math.Pi / 2, math.Pi / 4, -math.Pi / 3, 1.234}
	for _, theta := range points {
		grad, err := rule.Gradient([]float64{theta}, cosine)
		if err != nil {
			t.Fatalf("Gradient failed at θ=%v: %v", theta, err)
		}

		want := -math.Sin(theta)
		if math.Abs(grad[0]-want) > 1e-12 {
			t.Errorf("θ=%v: gradient %v, want %v", theta, grad[0], want)
		}
	}
}

func TestParameterShiftMinimizesCosine(t *testing.T) {
	rule, err := NewParameterShift(0.4)
	if err != nil {
		t.Fatalf("NewParameterShift failed: %v", err)
	}
	d, err := New(rule, 200, 1e-12)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := d.Run([]float64{0.3}, cosine)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	final := res.History[len(res.History)-1].Cost
	if math.Abs(final-(-1)) > 1e-6 {
		t.Errorf("Expected minimum -1, got %v", final)
	}
}

func TestParameterShiftReportsSteppedCost(t *testing.T) {
	rule, err := NewParameterShift(0.4)
	if err != nil {
		t.Fatalf("NewParameterShift failed: %v", err)
	}

	next, cost, err := rule.ProposeStep([]float64{0.3}, cosine)
	if err != nil {
		t.Fatalf("ProposeStep failed: %v", err)
	}

	// The gradient at 0.3 is -sin(0.3), so one step moves downhill and
	// the reported cost must be the cosine at the new angle, strictly
	// below cos(0.3).
	if math.Abs(cost-math.Cos(next[0])) > 1e-12 {
		t.Errorf("Cost %v does not match the stepped vector (cos(%v) = %v)", cost, next[0], math.Cos(next[0]))
	}
	if cost >= math.Cos(0.3) {
		t.Errorf("Expected descent below %v, got %v", math.Cos(0.3), cost)
	}
}

func TestParameterShiftEvaluationCount(t *testing.T) {
	ev := &quadratic{dim: 3}

	rule, _ := NewParameterShift(0.1)
	if _, _, err := rule.ProposeStep([]float64{1, 2, 3}, ev); err != nil {
		t.Fatalf("ProposeStep failed: %v", err)
	}

	// One cost evaluation plus two shifted evaluations per parameter.
	want := 1 + 2*3
	if ev.calls != want {
		t.Errorf("Expected %d evaluator calls, got %d", want, ev.calls)
	}
}
