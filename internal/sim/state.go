package sim

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/varqopt/internal/hamiltonian"
)

// State is a full statevector over n qubits, 2^n amplitudes.
// Qubit 0 is the least significant bit of the amplitude index.
type State []complex128

// newState returns |0...0> over n qubits.
func newState(n int) State {
	s := make(State, 1<<n)
	s[0] = 1
	return s
}

// clone returns an independent copy of the state.
func (s State) clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// applySingle applies a 2x2 unitary to qubit q.
func (s State) applySingle(q int, m [2][2]complex128) {
	bit := 1 << q
	for i := range s {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s[i], s[j]
		s[i] = m[0][0]*a0 + m[0][1]*a1
		s[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

// applyCNOT applies a controlled-X with the given control and target.
func (s State) applyCNOT(control, target int) {
	cbit := 1 << control
	tbit := 1 << target
	for i := range s {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			s[i], s[j] = s[j], s[i]
		}
	}
}

// applyRZZ applies exp(-i·θ/2·Z⊗Z) on the two qubits: amplitudes where
// the bits agree pick up phase e^{-iθ/2}, the rest e^{+iθ/2}.
func (s State) applyRZZ(q1, q2 int, theta float64) {
	minus := cmplx.Exp(complex(0, -theta/2))
	plus := cmplx.Exp(complex(0, theta/2))
	b1, b2 := 1<<q1, 1<<q2
	for i := range s {
		if (i&b1 != 0) == (i&b2 != 0) {
			s[i] *= minus
		} else {
			s[i] *= plus
		}
	}
}

func hadamard() [2][2]complex128 {
	h := complex(1/math.Sqrt2, 0)
	return [2][2]complex128{{h, h}, {h, -h}}
}

func pauliX() [2][2]complex128 {
	return [2][2]complex128{{0, 1}, {1, 0}}
}

func rx(theta float64) [2][2]complex128 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return [2][2]complex128{{c, s}, {s, c}}
}

func ry(theta float64) [2][2]complex128 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return [2][2]complex128{{c, -s}, {s, c}}
}

func rz(theta float64) [2][2]complex128 {
	return [2][2]complex128{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// Expectation computes the real part of <s|P|s> for a Pauli string.
// Pauli eigenvalues are ±1, so the result lies in [-1, 1].
func Expectation(s State, term hamiltonian.Term) float64 {
	applied := s.clone()
	for _, op := range term.Ops {
		bit := 1 << op.Qubit
		switch op.Axis {
		case hamiltonian.AxisX:
			for i := range applied {
				if i&bit == 0 {
					j := i | bit
					applied[i], applied[j] = applied[j], applied[i]
				}
			}
		case hamiltonian.AxisY:
			for i := range applied {
				if i&bit == 0 {
					j := i | bit
					// Y|0> = i|1>, Y|1> = -i|0>
					applied[i], applied[j] = complex(0, -1)*applied[j], complex(0, 1)*applied[i]
				}
			}
		case hamiltonian.AxisZ:
			for i := range applied {
				if i&bit != 0 {
					applied[i] = -applied[i]
				}
			}
		}
	}

	var sum complex128
	for i := range s {
		sum += cmplx.Conj(s[i]) * applied[i]
	}
	return real(sum)
}
