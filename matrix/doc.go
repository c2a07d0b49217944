// Package matrix provides the dense, bounds-checked float64 matrix used to
// carry distance tables through the route optimizer.
//
// The package provides:
//
//   - Matrix, a small interface (Rows, Cols, At, Set, Clone) so that solvers
//     can be exercised against independent implementations in tests.
//   - Dense, a row-major implementation with a finite-only numeric policy.
//   - Validators for the shapes and values a distance matrix must satisfy
//     (square, zero diagonal, finite, non-negative, optionally symmetric).
//
// All public accessors return sentinel errors instead of panicking; callers
// match them with errors.Is.
package matrix
