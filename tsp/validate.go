// Package tsp - validation utilities shared by the cost evaluator and solvers.
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input - typed or sentinel errors only.
//   - O(n²) worst-case where n is the matrix size.
package tsp

import (
	"fmt"

	"github.com/katalvlaran/qroute/matrix"
)

// SymmetryTolerance is the largest |M[i][j] − M[j][i]| WithSkipMirrors
// accepts as symmetric.
const SymmetryTolerance = 1e-12

// validateDist verifies a distance matrix and returns its order n.
//
// Complexity: O(n²).
func validateDist(dist matrix.Matrix) (int, error) {
	if err := matrix.ValidateDistance(dist); err != nil {
		return 0, fmt.Errorf("tsp: %w", err)
	}

	return dist.Rows(), nil
}

// ValidatePermutation checks that tour is a permutation of {0..n-1}.
// It returns *InvalidTourError describing the first defect found.
//
// Complexity: O(n) time, O(n) space.
func ValidatePermutation(tour []int, n int) error {
	if len(tour) != n || n <= 0 {
		return &InvalidTourError{Defect: DefectLength, Position: len(tour), Value: n}
	}
	seen := make([]bool, n)

	var (
		i int
		v int
	)
	for i = 0; i < n; i++ {
		v = tour[i]
		if v < 0 || v >= n {
			return &InvalidTourError{Defect: DefectRange, Position: i, Value: v}
		}
		if seen[v] {
			return &InvalidTourError{Defect: DefectDuplicate, Position: i, Value: v}
		}
		seen[v] = true
	}

	return nil
}

// snapshot copies dist into a [][]float64 for read-only hot loops.
// The copy is shared by brute-force workers without synchronization.
func snapshot(dist matrix.Matrix) ([][]float64, error) {
	var (
		n    = dist.Rows()
		out  = make([][]float64, n)
		i, j int
		err  error
	)
	for i = 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			if out[i][j], err = dist.At(i, j); err != nil {
				return nil, fmt.Errorf("tsp: %w", err)
			}
		}
	}

	return out, nil
}
