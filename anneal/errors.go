package anneal

import (
	"errors"
	"fmt"
)

var (
	// ErrVariableCount is returned when a QUBO does not have n² variables.
	ErrVariableCount = errors.New("anneal: variable count does not match city count")

	// ErrSolverMismatch is returned when samples come from a solver other than the requested one.
	ErrSolverMismatch = errors.New("anneal: samples produced by a different solver")

	// ErrEmptySampleSet is returned when a sampler answers with no samples.
	ErrEmptySampleSet = errors.New("anneal: empty sample set")

	// ErrMalformedSample is returned when a sample has the wrong number of bits or non-binary values.
	ErrMalformedSample = errors.New("anneal: malformed sample")

	// ErrNoSolver is returned when neither the config nor the sampler names a solver.
	ErrNoSolver = errors.New("anneal: no solver selected")

	// ErrNilSampler is returned by Solve for a nil Sampler.
	ErrNilSampler = errors.New("anneal: nil sampler")

	// ErrNilQUBO is returned by Solve and samplers for a nil QUBO.
	ErrNilQUBO = errors.New("anneal: nil qubo")
)

// SolveUnavailableError reports that no sample set could be obtained:
// network or authentication failures, exhausted capacity, a timeout, a
// rejected solver id or an answer that failed validation.
type SolveUnavailableError struct {
	Solver string
	Err    error
}

// Error implements error.
func (e *SolveUnavailableError) Error() string {
	if e.Solver == "" {
		return fmt.Sprintf("anneal: solve unavailable: %v", e.Err)
	}

	return fmt.Sprintf("anneal: solve unavailable on %s: %v", e.Solver, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SolveUnavailableError) Unwrap() error { return e.Err }
