package vqc

import (
	"math"
	"testing"

	"github.com/cwbudde/varqopt/internal/dataset"
	"github.com/cwbudde/varqopt/internal/driver"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 1); err == nil {
		t.Error("Expected error for zero features")
	}
	if _, err := New(2, 0); err == nil {
		t.Error("Expected error for zero layers")
	}
}

func TestScoreSingleQubit(t *testing.T) {
	// One feature, one layer: the circuit is RY(x) RY(θ)|0>, so the
	// score is cos(x + θ).
	clf, err := New(1, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	x, theta := 0.4, 0.9
	score, err := clf.Score([]float64{theta}, []float64{x})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if math.Abs(score-math.Cos(x+theta)) > 1e-12 {
		t.Errorf("Score %v, want %v", score, math.Cos(x+theta))
	}
}

func TestPredictSign(t *testing.T) {
	clf, err := New(1, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// cos(0) = 1 -> class +1; cos(π) = -1 -> class -1.
	pred, err := clf.Predict([]float64{0}, []float64{0})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred != 1 {
		t.Errorf("Expected +1, got %d", pred)
	}

	pred, err = clf.Predict([]float64{math.Pi}, []float64{0})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred != -1 {
		t.Errorf("Expected -1, got %d", pred)
	}
}

func separableDataset() *dataset.Dataset {
	// One feature: positive class near 0, negative class near π.
	return &dataset.Dataset{
		XTrain: [][]float64{{0.1}, {-0.2}, {0.05}, {3.0}, {3.3}, {2.9}},
		YTrain: []int{1, 1, 1, -1, -1, -1},
		XTest:  [][]float64{{0.0}, {3.1}},
	}
}

func TestTrainSeparable(t *testing.T) {
	clf, err := New(1, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ev, err := clf.Evaluator(separableDataset())
	if err != nil {
		t.Fatalf("Evaluator failed: %v", err)
	}

	// The first harmonic dominates the loss, so a few Rotosolve cycles
	// place the single angle close to the optimum.
	d, err := driver.New(driver.NewRotosolve(), 8, 1e-9)
	if err != nil {
		t.Fatalf("driver.New failed: %v", err)
	}

	res, err := d.Run([]float64{0.7}, ev)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	acc, err := clf.Accuracy(res.FinalParams, separableDataset().XTrain, separableDataset().YTrain)
	if err != nil {
		t.Fatalf("Accuracy failed: %v", err)
	}
	if acc < 1 {
		t.Errorf("Expected perfect training accuracy, got %v", acc)
	}
}

func TestEvaluatorDimensionMismatch(t *testing.T) {
	clf, err := New(2, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := clf.Evaluator(separableDataset()); err == nil {
		t.Error("Expected error for feature mismatch")
	}
}

func TestAccuracyValidation(t *testing.T) {
	clf, _ := New(1, 1)

	if _, err := clf.Accuracy([]float64{0}, [][]float64{{1}}, []int{1, -1}); err == nil {
		t.Error("Expected error for sample/label mismatch")
	}
	if _, err := clf.Accuracy([]float64{0}, nil, nil); err == nil {
		t.Error("Expected error for empty sample set")
	}
}
