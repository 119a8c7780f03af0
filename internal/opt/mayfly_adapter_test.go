package opt

import (
	"math"
	"testing"

	"github.com/cwbudde/varqopt/internal/driver"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin.
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func TestMayflyAdapterOnSphere(t *testing.T) {
	optimizer := NewMayfly(100, 20, 42) // maxIters, popSize, seed

	dim := 3
	lower, upper := AngleBounds(dim)

	best, cost := optimizer.Run(sphere, lower, upper, dim)

	if len(best) != dim {
		t.Fatalf("Expected %d parameters, got %d", dim, len(best))
	}
	if cost > 0.1 {
		t.Errorf("Expected cost near 0, got %f", cost)
	}
	for i, v := range best {
		if math.Abs(v) > 1.0 {
			t.Errorf("Parameter %d = %f, expected near 0", i, v)
		}
	}
}

func TestMayflyAdapterDeterministic(t *testing.T) {
	dim := 2
	lower, upper := AngleBounds(dim)

	// Run twice with same seed (popSize must be >=20 for mayfly v0.1.0)
	optimizer1 := NewMayfly(50, 20, 123)
	_, cost1 := optimizer1.Run(sphere, lower, upper, dim)

	optimizer2 := NewMayfly(50, 20, 123)
	_, cost2 := optimizer2.Run(sphere, lower, upper, dim)

	if cost1 != cost2 {
		t.Errorf("Non-deterministic: cost1=%f, cost2=%f", cost1, cost2)
	}
}

func TestAngleBounds(t *testing.T) {
	lower, upper := AngleBounds(4)
	if len(lower) != 4 || len(upper) != 4 {
		t.Fatalf("Expected 4 bounds, got %d/%d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] != -math.Pi || upper[i] != math.Pi {
			t.Errorf("Bound %d = [%v, %v], want ±π", i, lower[i], upper[i])
		}
	}
}

func TestObjectiveAdapter(t *testing.T) {
	ev := driver.EvaluatorFunc{Dim: 2, Func: func(p []float64) (float64, error) {
		return sphere(p), nil
	}}

	obj, lastErr := Objective(ev)
	if got := obj([]float64{3, 4}); got != 25 {
		t.Errorf("Objective = %v, want 25", got)
	}
	if lastErr() != nil {
		t.Errorf("Unexpected error: %v", lastErr())
	}
}
