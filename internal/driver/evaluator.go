package driver

// EvalRequest carries one cost evaluation request.
type EvalRequest struct {
	// Params is the parameter vector to evaluate. Evaluators must not
	// mutate it.
	Params []float64

	// Shots optionally allocates a measurement budget per cost term.
	// Evaluators without shot semantics ignore it.
	Shots map[string]int
}

// Evaluation is the result of one cost evaluation.
type Evaluation struct {
	// Cost is the scalar objective value.
	Cost float64

	// Gradient is the analytic gradient, if the evaluator supports one.
	// Nil otherwise.
	Gradient []float64

	// Terms holds per-term expectation values for evaluators whose cost
	// is a weighted sum of independent terms. Nil otherwise.
	Terms map[string]float64
}

// Evaluator is the external cost capability driving the optimization.
// It stands in for a quantum circuit simulation or hardware measurement:
// the driver never inspects its internals, only its scalar output.
//
// Evaluations may be stochastic (statistical estimates across calls) but
// must otherwise depend only on the request.
type Evaluator interface {
	// Dimension returns the expected parameter vector length.
	Dimension() int

	// Evaluate computes the cost at the requested parameters.
	Evaluate(req EvalRequest) (Evaluation, error)
}

// UpdateRule proposes the next parameter vector from the current one.
// Implementations may issue one or more evaluator calls per step (for
// example shifted evaluations for gradient estimation) and return the cost
// observed during the step.
type UpdateRule interface {
	// Name identifies the rule for logging and persistence.
	Name() string

	// ProposeStep returns the next parameter vector and the cost observed
	// at the current one. It must not mutate params.
	ProposeStep(params []float64, ev Evaluator) ([]float64, float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc struct {
	Dim  int
	Func func(params []float64) (float64, error)
}

// Dimension returns the expected parameter count.
func (f EvaluatorFunc) Dimension() int { return f.Dim }

// Evaluate calls the wrapped function.
func (f EvaluatorFunc) Evaluate(req EvalRequest) (Evaluation, error) {
	cost, err := f.Func(req.Params)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{Cost: cost}, nil
}
