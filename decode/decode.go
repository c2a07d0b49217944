package decode

import (
	"fmt"
	"math"

	"github.com/katalvlaran/qroute/anneal"
)

// Tour decodes one assignment of n² bits.
//
// Errors: ErrBitCount, ErrNotBinary, *InvalidSampleError.
// Complexity: O(n²).
func Tour(bits []uint8, n int) ([]int, error) {
	if n <= 0 || len(bits) != n*n {
		return nil, fmt.Errorf("%d bits for %d cities: %w", len(bits), n, ErrBitCount)
	}
	for i, b := range bits {
		if b > 1 {
			return nil, fmt.Errorf("bit %d = %d: %w", i, b, ErrNotBinary)
		}
	}

	var (
		tour = make([]int, n)
		c, p int
		hits []int
	)
	// Positions first.
	for p = 0; p < n; p++ {
		hits = hits[:0]
		for c = 0; c < n; c++ {
			if bits[c*n+p] == 1 {
				hits = append(hits, c)
			}
		}
		if len(hits) != 1 {
			return nil, &InvalidSampleError{Family: PositionFamily, Index: p, Conflicts: append([]int{}, hits...)}
		}
		tour[p] = hits[0]
	}
	// Then cities.
	for c = 0; c < n; c++ {
		hits = hits[:0]
		for p = 0; p < n; p++ {
			if bits[c*n+p] == 1 {
				hits = append(hits, p)
			}
		}
		if len(hits) != 1 {
			return nil, &InvalidSampleError{Family: CityFamily, Index: c, Conflicts: append([]int{}, hits...)}
		}
	}

	return tour, nil
}

// Best decodes the first sample of set, the lowest-energy one when set
// comes from anneal.Solve. The instance size is derived from the bit count.
//
// The distribution over all samples is returned in every case where the
// set is well formed, including when the best sample is invalid: the error
// is then *InvalidSampleError and tour is nil.
func Best(set anneal.SampleSet) ([]int, Distribution, error) {
	best, ok := set.Best()
	if !ok {
		return nil, Distribution{}, ErrEmptySampleSet
	}
	n := citiesFor(len(best.Bits))
	if n < 0 {
		return nil, Distribution{}, fmt.Errorf("%d bits: %w", len(best.Bits), ErrBitCount)
	}

	dist, err := NewDistribution(set, n)
	if err != nil {
		return nil, Distribution{}, err
	}
	tour, err := Tour(best.Bits, n)
	if err != nil {
		return nil, dist, err
	}

	return tour, dist, nil
}

// citiesFor returns n with n² = vars, or -1.
func citiesFor(vars int) int {
	n := int(math.Sqrt(float64(vars)) + 0.5)
	if n <= 0 || n*n != vars {
		return -1
	}

	return n
}
