// Package tsp provides the classical side of the route optimizer: the tour
// Cost Evaluator and the exact solvers used as ground truth for the
// probabilistic annealing path.
//
// A tour is an open permutation of {0..n-1}: tour[p] is the city visited at
// position p, and the closing edge tour[n-1] -> tour[0] is implicit.
//
//   - TourCost: sum of consecutive distances including the wraparound edge.
//   - BruteForce: enumerates the (n−1)! tours with city 0 fixed first,
//     optionally skipping mirror images and sharded across workers.
//     O(n·(n−1)!) time.
//   - HeldKarp: dynamic programming over subsets, O(n²·2ⁿ) time and
//     O(n·2ⁿ) memory.
//
// Exhaustive search grows factorially; callers are expected to impose a city
// ceiling before invoking BruteForce (see route.Optimizer).
package tsp
