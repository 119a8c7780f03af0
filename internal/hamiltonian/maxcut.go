package hamiltonian

import (
	"fmt"
	"strconv"
	"strings"
)

// Edge is an undirected graph edge between two vertices.
type Edge struct {
	U, V int
}

// MaxCut builds the cost Hamiltonian for the maximum-cut problem on the
// given graph:
//
//	C = Σ_(u,v) 1/2 · (Z_u Z_v − 1)
//
// Minimizing C maximizes the number of cut edges; the constant offset is
// folded into the reported cost by Offset.
func MaxCut(edges []Edge) (*Hamiltonian, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("maxcut graph has no edges")
	}

	var h Hamiltonian
	for _, e := range edges {
		if e.U < 0 || e.V < 0 {
			return nil, fmt.Errorf("negative vertex in edge %d-%d", e.U, e.V)
		}
		if e.U == e.V {
			return nil, fmt.Errorf("self-loop on vertex %d", e.U)
		}
		h.Terms = append(h.Terms, NewTerm(0.5,
			PauliOp{Axis: AxisZ, Qubit: e.U},
			PauliOp{Axis: AxisZ, Qubit: e.V},
		))
	}
	return &h, nil
}

// MaxCutOffset is the constant −|E|/2 dropped from the MaxCut Hamiltonian.
// Adding it to a cost value recovers the negated cut size.
func MaxCutOffset(edges []Edge) float64 {
	return -0.5 * float64(len(edges))
}

// ParseEdges reads an edge list of the form "0-1,1-2,2-0".
func ParseEdges(s string) ([]Edge, error) {
	var edges []Edge
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		uv := strings.SplitN(part, "-", 2)
		if len(uv) != 2 {
			return nil, fmt.Errorf("bad edge %q, want u-v", part)
		}
		u, err := strconv.Atoi(strings.TrimSpace(uv[0]))
		if err != nil {
			return nil, fmt.Errorf("bad vertex %q: %w", uv[0], err)
		}
		v, err := strconv.Atoi(strings.TrimSpace(uv[1]))
		if err != nil {
			return nil, fmt.Errorf("bad vertex %q: %w", uv[1], err)
		}
		edges = append(edges, Edge{U: u, V: v})
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("no edges in %q", s)
	}
	return edges, nil
}
