package driver

import (
	"math"
	"sort"
)

// ShotAdaptive estimates gradients with the parameter-shift rule under a
// fixed total measurement budget, redistributing shots across cost terms
// every iteration. Terms with larger coefficients or noisier gradient
// estimates receive more shots, subject to a per-term minimum; the total
// never exceeds the configured budget.
type ShotAdaptive struct {
	// Step is the learning rate applied to the estimated gradient.
	Step float64

	// Shift is the parameter-shift constant.
	Shift float64

	// Coefficients maps each term ID to its weight in the cost sum.
	Coefficients map[string]float64

	// TotalShots caps the number of shots allocated across all terms in
	// one evaluation.
	TotalShots int

	// MinShots is the per-term floor. Terms never starve entirely.
	MinShots int

	// Decay is the exponential-moving-average factor for the per-term
	// gradient variance estimate, in (0, 1).
	Decay float64

	variance map[string]float64
	prev     map[string]float64
}

// NewShotAdaptive creates a shot-adaptive rule. coefficients must name every
// term the evaluator reports.
func NewShotAdaptive(step float64, coefficients map[string]float64, totalShots, minShots int) (*ShotAdaptive, error) {
	if step <= 0 {
		return nil, &ConfigError{Field: "step", Reason: "must be positive"}
	}
	if len(coefficients) == 0 {
		return nil, &ConfigError{Field: "coefficients", Reason: "cannot be empty"}
	}
	if totalShots <= 0 {
		return nil, &ConfigError{Field: "totalShots", Reason: "must be positive"}
	}
	if minShots <= 0 {
		return nil, &ConfigError{Field: "minShots", Reason: "must be positive"}
	}
	if minShots*len(coefficients) > totalShots {
		return nil, &ConfigError{
			Field:  "totalShots",
			Reason: "too small for per-term minimum",
			Detail: map[string]int{"terms": len(coefficients), "minShots": minShots},
		}
	}
	return &ShotAdaptive{
		Step:         step,
		Shift:        DefaultShift,
		Coefficients: coefficients,
		TotalShots:   totalShots,
		MinShots:     minShots,
		Decay:        0.9,
		variance:     make(map[string]float64),
		prev:         make(map[string]float64),
	}, nil
}

// Name implements UpdateRule.
func (s *ShotAdaptive) Name() string { return "shotadaptive" }

// Allocate distributes the shot budget across terms proportional to
// |coefficient| · sqrt(variance estimate), with a per-term floor of
// MinShots. The returned allocation always sums to at most TotalShots.
func (s *ShotAdaptive) Allocate() map[string]int {
	ids := make([]string, 0, len(s.Coefficients))
	for id := range s.Coefficients {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	weights := make(map[string]float64, len(ids))
	var total float64
	for _, id := range ids {
		// Unseen terms start with unit variance so nothing is starved
		// before the first estimate arrives.
		v, ok := s.variance[id]
		if !ok {
			v = 1
		}
		w := math.Abs(s.Coefficients[id]) * math.Sqrt(v)
		weights[id] = w
		total += w
	}

	alloc := make(map[string]int, len(ids))
	remaining := s.TotalShots - s.MinShots*len(ids)
	for _, id := range ids {
		share := 0
		if total > 0 {
			share = int(float64(remaining) * weights[id] / total)
		}
		alloc[id] = s.MinShots + share
	}
	return alloc
}

// ProposeStep allocates shots, estimates the gradient with shifted
// evaluations under that budget, descends, and reports the cost at the
// stepped vector. The per-term variance estimates are updated from the
// stepped evaluation.
func (s *ShotAdaptive) ProposeStep(params []float64, ev Evaluator) ([]float64, float64, error) {
	shots := s.Allocate()

	shift := &ParameterShift{Step: s.Step, Shift: s.Shift, Shots: shots}
	grad, err := shift.Gradient(params, ev)
	if err != nil {
		return nil, 0, err
	}

	next := make([]float64, len(params))
	for i := range params {
		next[i] = params[i] - s.Step*grad[i]
	}

	eval, err := ev.Evaluate(EvalRequest{Params: next, Shots: shots})
	if err != nil {
		return nil, 0, err
	}
	s.observeTerms(eval.Terms)

	return next, eval.Cost, nil
}

// observeTerms folds the latest per-term values into the variance EMA.
// The squared change between successive observations of a term serves as
// the noise proxy for its gradient estimate.
func (s *ShotAdaptive) observeTerms(terms map[string]float64) {
	for id, v := range terms {
		if prev, ok := s.prev[id]; ok {
			d := v - prev
			old, seen := s.variance[id]
			if !seen {
				old = 1
			}
			s.variance[id] = s.Decay*old + (1-s.Decay)*d*d
		}
		s.prev[id] = v
	}
}

// Reset clears the variance and observation state, as at run start.
func (s *ShotAdaptive) Reset() {
	s.variance = make(map[string]float64)
	s.prev = make(map[string]float64)
}
