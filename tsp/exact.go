package tsp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/qroute/matrix"
)

// MaxHeldKarpCities bounds the O(n·2ⁿ) tables HeldKarp allocates.
const MaxHeldKarpCities = 16

// HeldKarp solves the TSP exactly on dist using the Held–Karp
// dynamic-programming algorithm.
//
// dp[mask][j] is the minimum cost to start at 0, visit exactly the vertices
// in mask (mask always contains bit 0), and end at j. After filling dp the
// tour is closed by returning from j back to 0 and reconstructed from the
// parent table.
//
// Contract:
//   - dist is a valid distance matrix with n <= MaxHeldKarpCities.
//   - Ties resolve to the smallest predecessor index, so results are deterministic
//     but may differ from BruteForce's tie choice; costs always agree.
//
// Errors: matrix sentinels, ErrTooManyCities, ErrIncompleteGraph, ctx.Err().
//
// Time complexity:  O(n² · 2ⁿ)
// Memory complexity: O(n · 2ⁿ)
func HeldKarp(ctx context.Context, dist matrix.Matrix) (Result, error) {
	start := time.Now()
	n, err := validateDist(dist)
	if err != nil {
		return Result{}, err
	}
	if n > MaxHeldKarpCities {
		return Result{}, fmt.Errorf("held-karp with %d cities (max %d): %w", n, MaxHeldKarpCities, ErrTooManyCities)
	}
	d, err := snapshot(dist)
	if err != nil {
		return Result{}, err
	}
	if n <= 2 {
		tour := make([]int, n)
		for i := range tour {
			tour[i] = i
		}
		return Result{Tour: tour, Cost: round1e9(cycleCost(d, tour)), Elapsed: time.Since(start), Evaluated: 1}, nil
	}

	// Maximum subset mask: all n bits set.
	allMask := (1 << n) - 1

	// --- 1. Allocate DP and parent tables ---
	dp := make([][]float64, 1<<n)
	parent := make([][]int, 1<<n)
	for mask := 0; mask <= allMask; mask++ {
		if mask&1 == 0 {
			continue // only subsets containing the start are ever read
		}
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for j := 0; j < n; j++ {
			dp[mask][j] = math.Inf(1)
			parent[mask][j] = -1
		}
	}
	dp[1][0] = 0

	// --- 2. Fill DP for all masks that include vertex 0 ---
	var states int64
	for mask := 1; mask <= allMask; mask += 2 {
		if mask&0xFFF == 1 {
			if err = ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		for j := 1; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue // j not in subset
			}
			prevMask := mask ^ (1 << j)
			for k := 0; k < n; k++ {
				if prevMask&(1<<k) == 0 || math.IsInf(dp[prevMask][k], 1) {
					continue
				}
				states++
				cand := dp[prevMask][k] + d[k][j]
				if cand < dp[mask][j] {
					dp[mask][j] = cand
					parent[mask][j] = k
				}
			}
		}
	}

	// --- 3. Close the tour by returning to 0 ---
	bestCost := math.Inf(1)
	last := -1
	for j := 1; j < n; j++ {
		total := dp[allMask][j] + d[j][0]
		if total < bestCost {
			bestCost = total
			last = j
		}
	}
	if last < 0 {
		return Result{}, ErrIncompleteGraph
	}

	// --- 4. Reconstruct tour from parent table ---
	tour := make([]int, n)
	mask := allMask
	j := last
	for i := n - 1; i >= 1; i-- {
		tour[i] = j
		p := parent[mask][j]
		mask ^= 1 << j
		j = p
	}
	tour[0] = 0

	return Result{Tour: tour, Cost: round1e9(bestCost), Elapsed: time.Since(start), Evaluated: states}, nil
}
