// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for distance-matrix checks.
//  - Return sentinel errors tagged with the validator name so call sites can
//    match them with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry check runs O(n²) on the upper triangle only.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil, non-empty and square (Rows == Cols).
//
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateSquare", ErrNilMatrix)
	}
	if m.Rows() != m.Cols() || m.Rows() <= 0 {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateSymmetric checks A is symmetric within tolerance tol:
// |A[i,j] - A[j,i]| ≤ tol for all i<j.
//
// Errors: ErrNilMatrix/ErrNonSquare on structural issues, ErrNaNInf on bad tol,
// ErrAsymmetry on violation.
// Complexity: O(n^2).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}
	tol = math.Abs(tol)

	var (
		n        = m.Rows()
		i, j     int
		aij, aji float64
		err      error
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ { // upper triangle only
			if aij, err = m.At(i, j); err != nil {
				return validatorErrorf("ValidateSymmetric", err)
			}
			if aji, err = m.At(j, i); err != nil {
				return validatorErrorf("ValidateSymmetric", err)
			}
			if math.Abs(aij-aji) > tol {
				return validatorErrorf(fmt.Sprintf("ValidateSymmetric(%d,%d)", i, j), ErrAsymmetry)
			}
		}
	}

	return nil
}

// IsSymmetric reports whether ValidateSymmetric(m, tol) succeeds.
func IsSymmetric(m Matrix, tol float64) bool {
	return ValidateSymmetric(m, tol) == nil
}

// ValidateDistance verifies the invariants of a distance matrix:
//   - square and non-empty,
//   - zero diagonal,
//   - every entry finite and non-negative.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNonZeroDiagonal, ErrNaNInf, ErrNegativeEntry,
// each tagged with the offending coordinates.
// Complexity: O(n^2).
func ValidateDistance(m Matrix) error {
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateDistance", err)
	}

	var (
		n    = m.Rows()
		i, j int
		v    float64
		err  error
		tag  string
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return validatorErrorf("ValidateDistance", err)
			}
			tag = fmt.Sprintf("ValidateDistance(%d,%d)", i, j)
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				return validatorErrorf(tag, ErrNaNInf)
			case v < 0:
				return validatorErrorf(tag, ErrNegativeEntry)
			case i == j && v != 0:
				return validatorErrorf(tag, ErrNonZeroDiagonal)
			}
		}
	}

	return nil
}

// MaxEntry returns the largest entry of m. m must be non-empty.
// Complexity: O(r*c).
func MaxEntry(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, err
	}
	if m.Rows() <= 0 || m.Cols() <= 0 {
		return 0, validatorErrorf("MaxEntry", ErrInvalidDimensions)
	}

	var (
		best = math.Inf(-1)
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return 0, validatorErrorf("MaxEntry", err)
			}
			if v > best {
				best = v
			}
		}
	}

	return best, nil
}
