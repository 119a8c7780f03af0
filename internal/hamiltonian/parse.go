package hamiltonian

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a Hamiltonian from text of the form
//
//	"2*X1 + 4*Z1 - X0X2"
//
// Each summand is an optional coefficient, an optional '*', and a Pauli
// string: one or more axis letters (X, Y, Z) each followed by a qubit
// index. Whitespace around operators is ignored.
func Parse(s string) (*Hamiltonian, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty hamiltonian")
	}

	var h Hamiltonian
	for _, raw := range splitTerms(s) {
		term, err := parseTerm(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid term %q: %w", strings.TrimSpace(raw), err)
		}
		h.Terms = append(h.Terms, term)
	}
	return &h, nil
}

// splitTerms splits on + and - while keeping each term's sign attached.
// A leading sign belongs to the first term, and a sign directly after an
// exponent marker stays inside the coefficient (as in "2e-3*X0").
func splitTerms(s string) []string {
	var terms []string
	var current strings.Builder

	prev := rune(0)
	for i, r := range s {
		if (r == '+' || r == '-') && i > 0 && prev != 'e' && prev != 'E' &&
			strings.TrimSpace(current.String()) != "" {
			terms = append(terms, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		prev = r
	}
	if strings.TrimSpace(current.String()) != "" {
		terms = append(terms, current.String())
	}
	return terms
}

func parseTerm(raw string) (Term, error) {
	s := strings.TrimSpace(raw)

	sign := 1.0
	if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	} else if strings.HasPrefix(s, "-") {
		sign = -1
		s = strings.TrimSpace(s[1:])
	}

	coeff := 1.0
	if i := strings.IndexAny(s, "XYZ"); i > 0 {
		numPart := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s[:i]), "*"))
		c, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return Term{}, fmt.Errorf("bad coefficient %q", numPart)
		}
		coeff = c
		s = s[i:]
	} else if i < 0 {
		return Term{}, fmt.Errorf("no pauli operators")
	}

	ops, err := parsePaulis(s)
	if err != nil {
		return Term{}, err
	}
	return NewTerm(sign*coeff, ops...), nil
}

func parsePaulis(s string) ([]PauliOp, error) {
	var ops []PauliOp
	i := 0
	for i < len(s) {
		axis := s[i]
		if axis != 'X' && axis != 'Y' && axis != 'Z' {
			return nil, fmt.Errorf("unexpected character %q", string(s[i]))
		}
		i++

		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("missing qubit index after %q", string(axis))
		}
		qubit, err := strconv.Atoi(s[i:j])
		if err != nil {
			return nil, fmt.Errorf("bad qubit index %q", s[i:j])
		}

		ops = append(ops, PauliOp{Axis: Axis(axis), Qubit: qubit})
		i = j
	}

	seen := make(map[int]bool, len(ops))
	for _, op := range ops {
		if seen[op.Qubit] {
			return nil, fmt.Errorf("duplicate qubit %d in pauli string", op.Qubit)
		}
		seen[op.Qubit] = true
	}
	return ops, nil
}
