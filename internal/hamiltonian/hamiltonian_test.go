package hamiltonian

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	h, err := Parse("2*X1 + 4*Z1 - X0X2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(h.Terms) != 3 {
		t.Fatalf("Expected 3 terms, got %d", len(h.Terms))
	}

	want := []struct {
		id    string
		coeff float64
		ops   int
	}{
		{"X1", 2, 1},
		{"Z1", 4, 1},
		{"X0X2", -1, 2},
	}
	for i, w := range want {
		term := h.Terms[i]
		if term.ID != w.id {
			t.Errorf("Term %d: ID %q, want %q", i, term.ID, w.id)
		}
		if term.Coefficient != w.coeff {
			t.Errorf("Term %d: coefficient %v, want %v", i, term.Coefficient, w.coeff)
		}
		if len(term.Ops) != w.ops {
			t.Errorf("Term %d: %d ops, want %d", i, len(term.Ops), w.ops)
		}
	}

	if h.NumQubits() != 3 {
		t.Errorf("Expected 3 qubits, got %d", h.NumQubits())
	}
}

func TestParseVariants(t *testing.T) {
	cases := []struct {
		input string
		terms int
	}{
		{"Z0", 1},
		{"-Z0", 1},
		{"0.5*Z0Z1", 1},
		{"Z0 + Z1", 2},
		{"1.5*X0 - 2.5*Y1 + Z2", 3},
		{"2e-3*X0", 1},
		{"1E-2*Z0 - 3e+2*X1 + 4e2*Y2", 3},
	}
	for _, c := range cases {
		h, err := Parse(c.input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", c.input, err)
			continue
		}
		if len(h.Terms) != c.terms {
			t.Errorf("Parse(%q): %d terms, want %d", c.input, len(h.Terms), c.terms)
		}
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{"", "2*", "X", "Q0", "X0X0", "1.2.3*Z0"}
	for _, s := range bad {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, expected error", s)
		}
	}
}

func TestScientificCoefficients(t *testing.T) {
	h, err := Parse("2e-3*X0 - 1.5E+1*Z1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if h.Terms[0].Coefficient != 2e-3 {
		t.Errorf("Expected 0.002, got %v", h.Terms[0].Coefficient)
	}
	if h.Terms[1].Coefficient != -15 {
		t.Errorf("Expected -15, got %v", h.Terms[1].Coefficient)
	}
}

func TestCostAggregation(t *testing.T) {
	// C = 2<X1> + 4<Z1> - <X0X2> with fixed expectation values
	// {X1: -1, Z1: -1, X0X2: 1} is 2·(−1) + 4·(−1) − 1 = −7, which is
	// also the linear bound: every term sits at its extremal value.
	h, err := Parse("2*X1 + 4*Z1 - X0X2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cost := h.Cost(map[string]float64{"X1": -1, "Z1": -1, "X0X2": 1})
	if cost != -7 {
		t.Errorf("Expected cost -7, got %v", cost)
	}

	if h.Bound() != -7 {
		t.Errorf("Expected bound -7, got %v", h.Bound())
	}
}

func TestNegativeCoefficientSign(t *testing.T) {
	h, err := Parse("-2.5*Z0 - Z1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if h.Terms[0].Coefficient != -2.5 {
		t.Errorf("Expected -2.5, got %v", h.Terms[0].Coefficient)
	}
	if h.Terms[1].Coefficient != -1 {
		t.Errorf("Expected -1, got %v", h.Terms[1].Coefficient)
	}
}

func TestMaxCut(t *testing.T) {
	edges, err := ParseEdges("0-1, 1-2, 2-0")
	if err != nil {
		t.Fatalf("ParseEdges failed: %v", err)
	}

	h, err := MaxCut(edges)
	if err != nil {
		t.Fatalf("MaxCut failed: %v", err)
	}

	if len(h.Terms) != 3 {
		t.Fatalf("Expected 3 terms, got %d", len(h.Terms))
	}
	for _, term := range h.Terms {
		if term.Coefficient != 0.5 {
			t.Errorf("Term %s: coefficient %v, want 0.5", term.ID, term.Coefficient)
		}
		if len(term.Ops) != 2 {
			t.Errorf("Term %s: expected ZZ string", term.ID)
		}
	}

	// Triangle: best cut has 2 edges. Cost at an optimal assignment
	// (say qubit 0 separated): <Z0Z1> = -1, <Z1Z2> = 1, <Z0Z2> = -1.
	// Term IDs are canonicalized with qubits ascending.
	cost := h.Cost(map[string]float64{"Z0Z1": -1, "Z1Z2": 1, "Z0Z2": -1})
	cut := -(cost + MaxCutOffset(edges))
	if math.Abs(cut-2) > 1e-12 {
		t.Errorf("Expected cut size 2, got %v", cut)
	}
}

func TestMaxCutErrors(t *testing.T) {
	if _, err := MaxCut(nil); err == nil {
		t.Error("Expected error for empty graph")
	}
	if _, err := MaxCut([]Edge{{U: 1, V: 1}}); err == nil {
		t.Error("Expected error for self-loop")
	}
	if _, err := ParseEdges("0-1,bogus"); err == nil {
		t.Error("Expected error for malformed edge")
	}
}

func TestString(t *testing.T) {
	h, err := Parse("2*X1 + 4*Z1 - X0X2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := h.String(); got != "2*X1 + 4*Z1 - X0X2" {
		t.Errorf("String() = %q", got)
	}
}
