package hamiltonian

import (
	"fmt"
	"sort"
	"strings"
)

// Axis identifies a Pauli operator.
type Axis byte

const (
	AxisX Axis = 'X'
	AxisY Axis = 'Y'
	AxisZ Axis = 'Z'
)

// PauliOp is a single-qubit Pauli operator acting on one qubit.
type PauliOp struct {
	Axis  Axis
	Qubit int
}

// Term is a weighted Pauli string, one summand of a Hamiltonian.
type Term struct {
	// ID is the canonical name of the Pauli string, e.g. "X0X2".
	ID string

	// Coefficient is the term's weight in the cost sum.
	Coefficient float64

	// Ops are the single-qubit Paulis making up the string, sorted by qubit.
	Ops []PauliOp
}

// Hamiltonian is a weighted sum of Pauli-string terms. The cost of a
// parameter vector under a Hamiltonian is the coefficient-weighted sum of
// the terms' expectation values.
type Hamiltonian struct {
	Terms []Term
}

// NewTerm builds a term from its operators, deriving the canonical ID.
func NewTerm(coefficient float64, ops ...PauliOp) Term {
	sorted := append([]PauliOp{}, ops...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Qubit < sorted[j].Qubit })

	var b strings.Builder
	for _, op := range sorted {
		fmt.Fprintf(&b, "%c%d", op.Axis, op.Qubit)
	}
	return Term{ID: b.String(), Coefficient: coefficient, Ops: sorted}
}

// NumQubits returns one past the highest qubit index any term touches.
func (h *Hamiltonian) NumQubits() int {
	n := 0
	for _, t := range h.Terms {
		for _, op := range t.Ops {
			if op.Qubit+1 > n {
				n = op.Qubit + 1
			}
		}
	}
	return n
}

// Coefficients returns the term ID to coefficient mapping.
func (h *Hamiltonian) Coefficients() map[string]float64 {
	m := make(map[string]float64, len(h.Terms))
	for _, t := range h.Terms {
		m[t.ID] = t.Coefficient
	}
	return m
}

// Cost aggregates per-term expectation values into the scalar cost.
// Terms missing from values contribute zero.
func (h *Hamiltonian) Cost(values map[string]float64) float64 {
	var cost float64
	for _, t := range h.Terms {
		cost += t.Coefficient * values[t.ID]
	}
	return cost
}

// Bound returns a lower bound on the cost, assuming every expectation
// value lies in [-1, 1].
func (h *Hamiltonian) Bound() float64 {
	var bound float64
	for _, t := range h.Terms {
		if t.Coefficient >= 0 {
			bound -= t.Coefficient
		} else {
			bound += t.Coefficient
		}
	}
	return bound
}

func (h *Hamiltonian) String() string {
	var b strings.Builder
	for i, t := range h.Terms {
		if i > 0 {
			if t.Coefficient < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if t.Coefficient < 0 {
			b.WriteString("-")
		}
		c := t.Coefficient
		if c < 0 {
			c = -c
		}
		if c == 1 {
			b.WriteString(t.ID)
		} else {
			fmt.Fprintf(&b, "%g*%s", c, t.ID)
		}
	}
	return b.String()
}
