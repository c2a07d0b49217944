package anneal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/qroute/qubo"
)

// Solve submits q to sampler and returns the validated, ordered sample set
// together with the wall-clock duration of the call.
//
// Contract:
//   - q.Vars() must equal n*n, otherwise ErrVariableCount (nothing is submitted).
//   - The requested solver is cfg.Solver, or sampler.Name() when empty.
//   - cfg.Timeout > 0 bounds the call with a context deadline.
//
// Every failure after submission (sampler error, deadline, empty answer,
// malformed sample, solver mismatch) is returned as *SolveUnavailableError.
// Solve never retries.
func Solve(ctx context.Context, sampler Sampler, q *qubo.QUBO, n int, cfg Config) (SampleSet, time.Duration, error) {
	if sampler == nil {
		return SampleSet{}, 0, ErrNilSampler
	}
	if q == nil {
		return SampleSet{}, 0, ErrNilQUBO
	}
	if n <= 0 || q.Vars() != n*n {
		return SampleSet{}, 0, fmt.Errorf("qubo has %d variables, want %d: %w", q.Vars(), n*n, ErrVariableCount)
	}

	solver := cfg.Solver
	if solver == "" {
		solver = sampler.Name()
	}
	if solver == "" {
		return SampleSet{}, 0, &SolveUnavailableError{Err: ErrNoSolver}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	set, err := sampler.Sample(ctx, q, cfg.params(solver))
	elapsed := time.Since(start)
	if err != nil {
		var sue *SolveUnavailableError
		if errors.As(err, &sue) {
			return SampleSet{}, elapsed, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return SampleSet{}, elapsed, &SolveUnavailableError{Solver: solver, Err: err}
	}

	if err = validate(set, solver, n*n); err != nil {
		return SampleSet{}, elapsed, &SolveUnavailableError{Solver: solver, Err: err}
	}
	set.Sort()

	return set, elapsed, nil
}

// validate checks the answer of a sampler against the request.
func validate(set SampleSet, solver string, vars int) error {
	if set.Solver != solver {
		return fmt.Errorf("requested %q, got %q: %w", solver, set.Solver, ErrSolverMismatch)
	}
	if len(set.Samples) == 0 {
		return ErrEmptySampleSet
	}
	for i, s := range set.Samples {
		if len(s.Bits) != vars {
			return fmt.Errorf("sample %d has %d bits, want %d: %w", i, len(s.Bits), vars, ErrMalformedSample)
		}
		for v, b := range s.Bits {
			if b > 1 {
				return fmt.Errorf("sample %d bit %d = %d: %w", i, v, b, ErrMalformedSample)
			}
		}
		if s.Occurrences < 1 {
			return fmt.Errorf("sample %d has %d occurrences: %w", i, s.Occurrences, ErrMalformedSample)
		}
	}

	return nil
}
