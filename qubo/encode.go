package qubo

import (
	"fmt"
	"math"

	"github.com/katalvlaran/qroute/matrix"
)

// Option configures Encode.
type Option func(*encodeOptions)

type encodeOptions struct {
	penalty float64 // 0 => DefaultPenalty
}

// WithPenalty fixes λ instead of using DefaultPenalty. The value must be
// strictly greater than PenaltyBound of the matrix being encoded.
func WithPenalty(lambda float64) Option {
	return func(o *encodeOptions) { o.penalty = lambda }
}

// PenaltyBound returns the value λ must strictly exceed for dist:
// max(2·maxD, U/2), with U = Σ_a max_b M[a][b].
//
// Complexity: O(N²).
func PenaltyBound(dist matrix.Matrix) (float64, error) {
	if err := matrix.ValidateDistance(dist); err != nil {
		return 0, err
	}

	var (
		n          = dist.Rows()
		maxD, rowU float64
		upper      float64
		i, j       int
		v          float64
		err        error
	)
	for i = 0; i < n; i++ {
		rowU = 0
		for j = 0; j < n; j++ {
			if v, err = dist.At(i, j); err != nil {
				return 0, err
			}
			if v > rowU {
				rowU = v
			}
		}
		upper += rowU
		if rowU > maxD {
			maxD = rowU
		}
	}

	return math.Max(2*maxD, upper/2), nil
}

// DefaultPenalty returns PenaltyBound(dist) + max(maxD, 1).
func DefaultPenalty(dist matrix.Matrix) (float64, error) {
	bound, err := PenaltyBound(dist)
	if err != nil {
		return 0, err
	}
	maxD, err := matrix.MaxEntry(dist)
	if err != nil {
		return 0, err
	}

	return bound + math.Max(maxD, 1), nil
}

// Encode builds the TSP QUBO for the N×N distance matrix dist (see package doc).
//
// Contract:
//   - dist is square with N >= 3, zero diagonal, finite non-negative entries.
//   - dist is only read; the returned QUBO does not alias it.
//
// Errors:
//   - *DegenerateMatrixError when N < 3.
//   - matrix sentinels (ErrNonSquare, ErrNegativeEntry, ...) for invalid matrices.
//   - ErrPenaltyTooWeak when WithPenalty is at or below PenaltyBound.
//
// Complexity: O(N³) terms, O(N³) time.
func Encode(dist matrix.Matrix, opts ...Option) (*QUBO, error) {
	var cfg encodeOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	// Stage 1: shape, size, values.
	if err := matrix.ValidateSquare(dist); err != nil {
		return nil, fmt.Errorf("qubo: encode: %w", err)
	}
	if dist.Rows() < MinCities {
		return nil, &DegenerateMatrixError{N: dist.Rows()}
	}
	bound, err := PenaltyBound(dist)
	if err != nil {
		return nil, fmt.Errorf("qubo: encode: %w", err)
	}

	// Stage 2: penalty weight.
	lambda := cfg.penalty
	if lambda == 0 {
		if lambda, err = DefaultPenalty(dist); err != nil {
			return nil, fmt.Errorf("qubo: encode: %w", err)
		}
	}
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda <= bound {
		return nil, fmt.Errorf("λ=%v must exceed %v: %w", lambda, bound, ErrPenaltyTooWeak)
	}

	var (
		n         = dist.Rows()
		q         = newQUBO(n, lambda)
		c, a, b   int
		p, p1, p2 int
		next      int
		d         float64
		idx       = func(city, pos int) int { return city*n + pos }
	)

	// Stage 3: one-hot penalties. Each variable is in one position group and
	// one city group, hence the doubled linear term.
	for c = 0; c < n; c++ {
		for p = 0; p < n; p++ {
			q.add(idx(c, p), idx(c, p), -2*lambda)
		}
	}
	for p = 0; p < n; p++ { // one city per position
		for a = 0; a < n; a++ {
			for b = a + 1; b < n; b++ {
				q.add(idx(a, p), idx(b, p), 2*lambda)
			}
		}
	}
	for c = 0; c < n; c++ { // one position per city
		for p1 = 0; p1 < n; p1++ {
			for p2 = p1 + 1; p2 < n; p2++ {
				q.add(idx(c, p1), idx(c, p2), 2*lambda)
			}
		}
	}
	q.offset = 2 * float64(n) * lambda

	// Stage 4: tour length between adjacent positions, wrapping at N-1 -> 0.
	for p = 0; p < n; p++ {
		next = (p + 1) % n
		for a = 0; a < n; a++ {
			for b = 0; b < n; b++ {
				if a == b {
					continue
				}
				if d, err = dist.At(a, b); err != nil {
					return nil, fmt.Errorf("qubo: encode: %w", err)
				}
				q.add(idx(a, p), idx(b, next), d)
			}
		}
	}

	q.freeze()

	return q, nil
}
