package sim

import (
	"fmt"

	"github.com/cwbudde/varqopt/internal/hamiltonian"
)

// HardwareEfficient builds the standard layered ansatz: per layer, one RY
// rotation per qubit followed by a CNOT chain. Every rotation owns its own
// parameter, so the parameter count is qubits·layers.
func HardwareEfficient(qubits, layers int) (*Circuit, error) {
	if qubits <= 0 || qubits > MaxQubits {
		return nil, fmt.Errorf("qubits must be in [1, %d], got %d", MaxQubits, qubits)
	}
	if layers <= 0 {
		return nil, fmt.Errorf("layers must be positive, got %d", layers)
	}

	c := &Circuit{Qubits: qubits, Params: qubits * layers}
	p := 0
	for l := 0; l < layers; l++ {
		for q := 0; q < qubits; q++ {
			c.Gates = append(c.Gates, Gate{Kind: GateRY, Qubit: q, Param: p})
			p++
		}
		for q := 0; q+1 < qubits; q++ {
			c.Gates = append(c.Gates, Gate{Kind: GateCNOT, Qubit: q, Qubit2: q + 1, Param: -1})
		}
	}
	return c, nil
}

// QAOA builds the alternating-operator ansatz for a Z-diagonal cost
// Hamiltonian: a Hadamard wall, then per layer the cost unitary
// exp(-iγ·C) followed by the transverse mixer exp(-iβ·ΣX). Each layer
// shares one γ across its cost terms and one β across its mixers, so the
// parameter vector is (γ_0, β_0, γ_1, β_1, ...), 2·layers entries.
func QAOA(h *hamiltonian.Hamiltonian, layers int) (*Circuit, error) {
	if layers <= 0 {
		return nil, fmt.Errorf("layers must be positive, got %d", layers)
	}
	qubits := h.NumQubits()
	if qubits == 0 {
		return nil, fmt.Errorf("hamiltonian touches no qubits")
	}
	if qubits > MaxQubits {
		return nil, fmt.Errorf("hamiltonian needs %d qubits, limit is %d", qubits, MaxQubits)
	}

	for _, t := range h.Terms {
		if len(t.Ops) > 2 {
			return nil, fmt.Errorf("term %s: QAOA cost unitaries support at most two-body terms", t.ID)
		}
		for _, op := range t.Ops {
			if op.Axis != hamiltonian.AxisZ {
				return nil, fmt.Errorf("term %s: QAOA requires a Z-diagonal cost hamiltonian", t.ID)
			}
		}
	}

	c := &Circuit{Qubits: qubits, Params: 2 * layers}
	for q := 0; q < qubits; q++ {
		c.Gates = append(c.Gates, Gate{Kind: GateH, Qubit: q, Param: -1})
	}

	for l := 0; l < layers; l++ {
		gamma := 2 * l
		beta := 2*l + 1

		// exp(-iγ·c·Z) = RZ(2γc), exp(-iγ·c·ZZ) = RZZ(2γc).
		for _, t := range h.Terms {
			switch len(t.Ops) {
			case 1:
				c.Gates = append(c.Gates, Gate{
					Kind:  GateRZ,
					Qubit: t.Ops[0].Qubit,
					Param: gamma,
					Scale: 2 * t.Coefficient,
				})
			case 2:
				c.Gates = append(c.Gates, Gate{
					Kind:   GateRZZ,
					Qubit:  t.Ops[0].Qubit,
					Qubit2: t.Ops[1].Qubit,
					Param:  gamma,
					Scale:  2 * t.Coefficient,
				})
			}
		}

		// exp(-iβ·X) = RX(2β) on every qubit.
		for q := 0; q < qubits; q++ {
			c.Gates = append(c.Gates, Gate{Kind: GateRX, Qubit: q, Param: beta, Scale: 2})
		}
	}
	return c, nil
}
