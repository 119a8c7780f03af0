// Package vqc implements a small variational quantum classifier: features
// are angle-embedded into single-qubit rotations, a layered variational
// circuit follows, and the ⟨Z⟩ readout of the first qubit is the class
// score. Training minimizes the square loss against ±1 labels through the
// optimization driver.
package vqc

import (
	"fmt"

	"github.com/cwbudde/varqopt/internal/dataset"
	"github.com/cwbudde/varqopt/internal/driver"
	"github.com/cwbudde/varqopt/internal/hamiltonian"
	"github.com/cwbudde/varqopt/internal/sim"
)

// Classifier fixes the circuit shape: one qubit per feature and a given
// number of variational layers.
type Classifier struct {
	Features int
	Layers   int

	readout *hamiltonian.Hamiltonian
}

// New creates a classifier shape for the given feature count.
func New(features, layers int) (*Classifier, error) {
	if features <= 0 || features > sim.MaxQubits {
		return nil, fmt.Errorf("features must be in [1, %d], got %d", sim.MaxQubits, features)
	}
	if layers <= 0 {
		return nil, fmt.Errorf("layers must be positive, got %d", layers)
	}
	readout, err := hamiltonian.Parse("Z0")
	if err != nil {
		return nil, err
	}
	return &Classifier{Features: features, Layers: layers, readout: readout}, nil
}

// NumParams returns the length of the trainable parameter vector.
func (c *Classifier) NumParams() int {
	return c.Features * c.Layers
}

// circuit builds the per-sample circuit: RY angle embedding of the
// features followed by the variational layers. Embedding gates are fixed
// (Param = -1), so the trainable parameters are exactly the variational
// rotations.
func (c *Classifier) circuit(x []float64) (*sim.Circuit, error) {
	if len(x) != c.Features {
		return nil, fmt.Errorf("sample has %d features, classifier expects %d", len(x), c.Features)
	}

	circ := &sim.Circuit{Qubits: c.Features, Params: c.NumParams()}
	for q, v := range x {
		circ.Gates = append(circ.Gates, sim.Gate{Kind: sim.GateRY, Qubit: q, Param: -1, Value: v})
	}

	p := 0
	for l := 0; l < c.Layers; l++ {
		for q := 0; q < c.Features; q++ {
			circ.Gates = append(circ.Gates, sim.Gate{Kind: sim.GateRY, Qubit: q, Param: p})
			p++
		}
		for q := 0; q+1 < c.Features; q++ {
			circ.Gates = append(circ.Gates, sim.Gate{Kind: sim.GateCNOT, Qubit: q, Qubit2: q + 1, Param: -1})
		}
	}
	return circ, nil
}

// Score returns the raw ⟨Z0⟩ output in [-1, 1] for one sample.
func (c *Classifier) Score(params, x []float64) (float64, error) {
	if len(params) != c.NumParams() {
		return 0, fmt.Errorf("expected %d parameters, got %d", c.NumParams(), len(params))
	}
	circ, err := c.circuit(x)
	if err != nil {
		return 0, err
	}
	state, err := circ.Run(params)
	if err != nil {
		return 0, err
	}
	return sim.Expectation(state, c.readout.Terms[0]), nil
}

// Predict returns the ±1 class for one sample. A zero score ties to +1.
func (c *Classifier) Predict(params, x []float64) (int, error) {
	score, err := c.Score(params, x)
	if err != nil {
		return 0, err
	}
	if score < 0 {
		return -1, nil
	}
	return 1, nil
}

// Accuracy is the fraction of samples whose prediction matches the label.
func (c *Classifier) Accuracy(params []float64, xs [][]float64, ys []int) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("%d samples but %d labels", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return 0, fmt.Errorf("no samples")
	}

	correct := 0
	for i, x := range xs {
		pred, err := c.Predict(params, x)
		if err != nil {
			return 0, err
		}
		if pred == ys[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(xs)), nil
}

// lossEvaluator is the training cost: mean square loss of ⟨Z0⟩ against
// the ±1 labels over the training set. Samples are mutually independent,
// so the per-sample evaluations could be parallelized without changing
// the result; the loop stays sequential for determinism.
type lossEvaluator struct {
	clf *Classifier
	xs  [][]float64
	ys  []int
}

// Evaluator builds a driver-compatible cost evaluator over a dataset.
func (c *Classifier) Evaluator(d *dataset.Dataset) (driver.Evaluator, error) {
	if d.Features() != c.Features {
		return nil, fmt.Errorf("dataset has %d features, classifier expects %d", d.Features(), c.Features)
	}
	if len(d.XTrain) == 0 {
		return nil, fmt.Errorf("dataset has no training samples")
	}
	return &lossEvaluator{clf: c, xs: d.XTrain, ys: d.YTrain}, nil
}

func (e *lossEvaluator) Dimension() int { return e.clf.NumParams() }

func (e *lossEvaluator) Evaluate(req driver.EvalRequest) (driver.Evaluation, error) {
	var loss float64
	for i, x := range e.xs {
		score, err := e.clf.Score(req.Params, x)
		if err != nil {
			return driver.Evaluation{}, err
		}
		d := score - float64(e.ys[i])
		loss += d * d
	}
	return driver.Evaluation{Cost: loss / float64(len(e.xs))}, nil
}
