package distance

import (
	"fmt"

	"github.com/katalvlaran/qroute/matrix"
)

// Option configures BuildMatrix.
type Option func(*buildOptions)

type buildOptions struct {
	assumeSymmetric bool
}

// WithAssumeSymmetric lets a pair listed in only one direction serve both
// directions of the matrix.
func WithAssumeSymmetric() Option {
	return func(o *buildOptions) { o.assumeSymmetric = true }
}

// BuildMatrix returns the N×N distance matrix for the ordered selection:
// M[i][j] is the distance from locations[i] to locations[j] and M[i][i] = 0.
//
// Contract:
//   - locations is non-empty with unique, non-empty identifiers.
//   - Every pair i≠j resolves from the table (see package doc for direction policy).
//
// Errors: ErrInvalidSelection, *MissingDistanceError.
//
// Complexity: O(N²) map lookups.
func BuildMatrix(locations []string, table *Table, opts ...Option) (*matrix.Dense, error) {
	var cfg buildOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateSelection(locations); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("nil table: %w", ErrInvalidSelection)
	}

	var n = len(locations)
	m, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}

	var (
		i, j int
		d    float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue // diagonal stays zero
			}
			d, err = resolve(table, locations[i], locations[j], cfg.assumeSymmetric)
			if err != nil {
				return nil, err
			}
			if err = m.Set(i, j, d); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// resolve reads from -> to according to the direction policy.
func resolve(table *Table, from, to string, assumeSymmetric bool) (float64, error) {
	if d, ok := table.Lookup(from, to); ok {
		return d, nil
	}
	d, reverse := table.Lookup(to, from)
	if reverse && assumeSymmetric {
		return d, nil
	}

	return 0, &MissingDistanceError{From: from, To: to, Reverse: reverse}
}

// validateSelection enforces a non-empty selection of unique, non-empty IDs.
func validateSelection(locations []string) error {
	if len(locations) == 0 {
		return fmt.Errorf("empty selection: %w", ErrInvalidSelection)
	}
	seen := make(map[string]struct{}, len(locations))
	for i, id := range locations {
		if id == "" {
			return fmt.Errorf("location %d is empty: %w", i, ErrInvalidSelection)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("location %s selected twice: %w", id, ErrInvalidSelection)
		}
		seen[id] = struct{}{}
	}

	return nil
}
