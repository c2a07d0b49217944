// Package tsp: exhaustive Brute-Force Solver.
//
// The search fixes city 0 at position 0 (rotations are the same cycle) and
// walks the remaining (n−1)! orders in lexicographic order, keeping the first
// strictly better tour. With WithSkipMirrors, an order whose second city is
// larger than its last city is skipped: its reflection was or will be scored.
//
// Sharding: the order space splits by the city at position 1. Shard s holds a
// contiguous lexicographic range, so reducing shard minima in increasing s
// with a strict "<" reproduces the sequential tie-breaking exactly. Workers
// only read the distance snapshot.
package tsp

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/qroute/matrix"
)

// ctxCheckEvery is how many tours a worker scores between cancellation checks.
const ctxCheckEvery = 1 << 12

// BruteOption configures BruteForce.
type BruteOption func(*bruteOptions)

type bruteOptions struct {
	skipMirrors bool
	workers     int
}

// WithSkipMirrors halves the search by skipping reflected tours.
// The matrix must be symmetric, otherwise BruteForce fails with matrix.ErrAsymmetry.
func WithSkipMirrors() BruteOption {
	return func(o *bruteOptions) { o.skipMirrors = true }
}

// WithWorkers shards the search over k goroutines (k <= 1 means sequential).
func WithWorkers(k int) BruteOption {
	return func(o *bruteOptions) { o.workers = k }
}

// shardResult is the local minimum of one shard.
type shardResult struct {
	tour      []int
	cost      float64
	evaluated int64
}

// BruteForce returns the minimum-cost tour of dist by exhaustive search.
// The instance size n is dist.Rows().
//
// Contract:
//   - dist is a valid distance matrix (square, zero diagonal, finite, non-negative).
//   - The result is deterministic: ties go to the lexicographically first tour.
//   - ctx cancellation aborts the search with ctx.Err().
//
// Complexity: O(n·(n−1)!) time, O(n·workers) space.
func BruteForce(ctx context.Context, dist matrix.Matrix, opts ...BruteOption) (Result, error) {
	var cfg = bruteOptions{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	n, err := validateDist(dist)
	if err != nil {
		return Result{}, err
	}
	if cfg.skipMirrors {
		if err = matrix.ValidateSymmetric(dist, SymmetryTolerance); err != nil {
			return Result{}, fmt.Errorf("tsp: skip mirrors: %w", err)
		}
	}
	d, err := snapshot(dist)
	if err != nil {
		return Result{}, err
	}

	// Trivial instances have a single cycle.
	if n <= 2 {
		tour := make([]int, n)
		for i := range tour {
			tour[i] = i
		}
		return Result{Tour: tour, Cost: round1e9(cycleCost(d, tour)), Elapsed: time.Since(start), Evaluated: 1}, nil
	}

	// One shard per choice of the second city.
	results := make([]shardResult, n-1)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.workers > 1 {
		g.SetLimit(cfg.workers)
	} else {
		g.SetLimit(1)
	}
	for s := 1; s < n; s++ {
		s := s
		g.Go(func() error {
			r, err := searchShard(gctx, d, s, cfg.skipMirrors)
			if err != nil {
				return err
			}
			results[s-1] = r
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return Result{}, err
	}

	// Min-reduction in shard order; strict "<" keeps the earliest tour.
	var (
		best      shardResult
		evaluated int64
		found     bool
	)
	for _, r := range results {
		evaluated += r.evaluated
		if r.tour == nil {
			continue // shard fully skipped as mirrors
		}
		if !found || r.cost < best.cost {
			best = r
			found = true
		}
	}

	return Result{
		Tour:      best.tour,
		Cost:      round1e9(best.cost),
		Elapsed:   time.Since(start),
		Evaluated: evaluated,
	}, nil
}

// searchShard scores every tour [0, second, ...] in lexicographic order.
func searchShard(ctx context.Context, d [][]float64, second int, skipMirrors bool) (shardResult, error) {
	var (
		n    = len(d)
		tour = make([]int, 0, n)
		res  shardResult
		c    float64
		k    int64
	)
	if err := ctx.Err(); err != nil {
		return shardResult{}, err
	}
	tour = append(tour, 0, second)
	for city := 1; city < n; city++ {
		if city != second {
			tour = append(tour, city)
		}
	}

	for {
		if !skipMirrors || tour[1] < tour[n-1] {
			c = cycleCost(d, tour)
			res.evaluated++
			if res.tour == nil || c < res.cost {
				if res.tour == nil {
					res.tour = make([]int, n)
				}
				copy(res.tour, tour)
				res.cost = c
			}
		}

		k++
		if k%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return shardResult{}, err
			}
		}
		if !nextPermutation(tour[2:]) {
			break
		}
	}

	return res, nil
}

// nextPermutation rearranges a into the next lexicographic permutation and
// reports false once a was the last one.
//
// Complexity: O(len(a)) worst case, O(1) amortized.
func nextPermutation(a []int) bool {
	var i = len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	var j = len(a) - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	for l, r := i+1, len(a)-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}

	return true
}
