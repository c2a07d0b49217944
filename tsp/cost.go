// Package tsp: the Cost Evaluator.
//
// Design:
//   - Pure: no mutation of the tour or the matrix, identical output on repeated calls.
//   - Strict: malformed tours fail with *InvalidTourError.
//   - Stable summation: rounded to 1e-9 to avoid cross-platform FP noise.
//
// Complexity:
//   - O(n) time for a tour of length n, O(n) extra space for validation.
package tsp

import (
	"math"

	"github.com/katalvlaran/qroute/matrix"
)

// roundScale controls final cost stabilization precision (1e-9).
const roundScale = 1e9

// TourCost returns Σ dist[tour[i]][tour[(i+1) mod n]] for an open tour of
// length n = dist.Rows().
//
// Errors:
//   - matrix sentinels when dist is nil or not square.
//   - *InvalidTourError when tour is not a permutation of {0..n-1}.
//
// Complexity: O(n).
func TourCost(dist matrix.Matrix, tour []int) (float64, error) {
	if err := matrix.ValidateSquare(dist); err != nil {
		return 0, err
	}
	var n = dist.Rows()
	if err := ValidatePermutation(tour, n); err != nil {
		return 0, err
	}

	var (
		sum  float64
		i    int
		w    float64
		err  error
		u, v int
	)
	for i = 0; i < n; i++ {
		u = tour[i]
		v = tour[(i+1)%n] // wraparound closes the cycle
		if w, err = dist.At(u, v); err != nil {
			return 0, err
		}
		sum += w
	}

	return round1e9(sum), nil
}

// cycleCost sums a tour over a snapshot without validation. Hot path only.
func cycleCost(d [][]float64, tour []int) float64 {
	var (
		n   = len(tour)
		sum = d[tour[n-1]][tour[0]]
		i   int
	)
	for i = 0; i+1 < n; i++ {
		sum += d[tour[i]][tour[i+1]]
	}

	return sum
}

// round1e9 returns x rounded to 1e-9 absolute precision.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}
