package sim

import "fmt"

// GateKind identifies a gate.
type GateKind string

const (
	GateH    GateKind = "H"
	GateX    GateKind = "X"
	GateRX   GateKind = "RX"
	GateRY   GateKind = "RY"
	GateRZ   GateKind = "RZ"
	GateRZZ  GateKind = "RZZ"
	GateCNOT GateKind = "CNOT"
)

// MaxQubits bounds the statevector size (2^20 amplitudes).
const MaxQubits = 20

// Gate is one circuit element. Rotation gates take their angle either
// from the parameter vector (Param >= 0, angle = Scale·params[Param]) or
// from the fixed Value (Param < 0). Fixed gates ignore angles entirely.
type Gate struct {
	Kind  GateKind
	Qubit int
	// Qubit2 is the CNOT target or the second RZZ qubit.
	Qubit2 int
	Param  int
	Scale  float64
	Value  float64
}

// Circuit is an ordered gate list over a fixed qubit register with a fixed
// number of free parameters. Parameter indices may be shared across gates
// (QAOA layers reuse one angle per layer).
type Circuit struct {
	Qubits int
	Params int
	Gates  []Gate
}

// Validate checks gate wiring against the register and parameter count.
func (c *Circuit) Validate() error {
	if c.Qubits <= 0 {
		return fmt.Errorf("circuit needs at least one qubit")
	}
	if c.Qubits > MaxQubits {
		return fmt.Errorf("circuit has %d qubits, limit is %d", c.Qubits, MaxQubits)
	}
	for i, g := range c.Gates {
		if g.Qubit < 0 || g.Qubit >= c.Qubits {
			return fmt.Errorf("gate %d: qubit %d out of range", i, g.Qubit)
		}
		switch g.Kind {
		case GateCNOT, GateRZZ:
			if g.Qubit2 < 0 || g.Qubit2 >= c.Qubits {
				return fmt.Errorf("gate %d: qubit %d out of range", i, g.Qubit2)
			}
			if g.Qubit2 == g.Qubit {
				return fmt.Errorf("gate %d: %s needs two distinct qubits", i, g.Kind)
			}
		case GateH, GateX, GateRX, GateRY, GateRZ:
		default:
			return fmt.Errorf("gate %d: unknown kind %q", i, g.Kind)
		}
		if g.Param >= c.Params {
			return fmt.Errorf("gate %d: parameter index %d out of range", i, g.Param)
		}
	}
	return nil
}

// Run executes the circuit on |0...0> and returns the final state.
func (c *Circuit) Run(params []float64) (State, error) {
	return c.run(params, -1, 0)
}

// run executes the circuit; gate index shiftGate, if non-negative, has
// shiftBy added to its effective angle. Used for per-gate shift-rule
// gradients with shared parameters.
func (c *Circuit) run(params []float64, shiftGate int, shiftBy float64) (State, error) {
	if len(params) != c.Params {
		return nil, fmt.Errorf("circuit expects %d parameters, got %d", c.Params, len(params))
	}

	s := newState(c.Qubits)
	for i, g := range c.Gates {
		var angle float64
		switch g.Kind {
		case GateRX, GateRY, GateRZ, GateRZZ:
			if g.Param >= 0 {
				scale := g.Scale
				if scale == 0 {
					scale = 1
				}
				angle = scale * params[g.Param]
			} else {
				angle = g.Value
			}
			if i == shiftGate {
				angle += shiftBy
			}
		}

		switch g.Kind {
		case GateH:
			s.applySingle(g.Qubit, hadamard())
		case GateX:
			s.applySingle(g.Qubit, pauliX())
		case GateRX:
			s.applySingle(g.Qubit, rx(angle))
		case GateRY:
			s.applySingle(g.Qubit, ry(angle))
		case GateRZ:
			s.applySingle(g.Qubit, rz(angle))
		case GateRZZ:
			s.applyRZZ(g.Qubit, g.Qubit2, angle)
		case GateCNOT:
			s.applyCNOT(g.Qubit, g.Qubit2)
		}
	}
	return s, nil
}
