// Package tsp - dispatcher for the classical baselines.
//
// Solve routes a distance matrix to the requested exact algorithm. Both
// algorithms return the true optimum; they differ in cost profile only
// (factorial time and linear memory vs exponential time and memory).
package tsp

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/qroute/matrix"
)

// Algorithm selects a classical solver.
type Algorithm int

const (
	// AlgoBruteForce enumerates every tour (see BruteForce).
	AlgoBruteForce Algorithm = iota
	// AlgoHeldKarp runs the subset dynamic program (see HeldKarp).
	AlgoHeldKarp
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case AlgoBruteForce:
		return "brute-force"
	case AlgoHeldKarp:
		return "held-karp"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a name ("brute-force", "bruteforce", "held-karp",
// "heldkarp") to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "bruteforce", "brute":
		return AlgoBruteForce, nil
	case "heldkarp":
		return AlgoHeldKarp, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnsupportedAlgorithm)
	}
}

// Solve runs algo on dist. BruteOptions apply to AlgoBruteForce only.
func Solve(ctx context.Context, dist matrix.Matrix, algo Algorithm, opts ...BruteOption) (Result, error) {
	switch algo {
	case AlgoBruteForce:
		return BruteForce(ctx, dist, opts...)
	case AlgoHeldKarp:
		return HeldKarp(ctx, dist)
	default:
		return Result{}, ErrUnsupportedAlgorithm
	}
}
