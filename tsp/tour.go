// Package tsp: tour utilities.
//
// This file contains compact helpers that operate purely on tour structure
// (index sequences), without depending on distance matrices.
// Provided helpers:
//   - Rotate: cyclic shift so the tour starts at a given city.
//   - Reflect: traverse the same cycle in the opposite direction.
//   - Canonical: rotation to city 0 plus a fixed orientation.
//   - EqualModuloRotation / EqualModuloSymmetry: cycle equality tests.
//   - Closed: append the starting city (display form).
//   - DebugString: compact printable representation for logs and tests.
//
// Design:
//   - Inputs are never mutated; every helper returns a fresh slice.
//   - Helpers that require a permutation return *InvalidTourError.
package tsp

import (
	"strconv"
	"strings"
)

// Rotate returns a copy of tour shifted so that out[0] == start.
//
// Complexity: O(n).
func Rotate(tour []int, start int) ([]int, error) {
	var n = len(tour)
	if err := ValidatePermutation(tour, n); err != nil {
		return nil, err
	}
	if start < 0 || start >= n {
		return nil, &InvalidTourError{Defect: DefectRange, Position: -1, Value: start}
	}

	var (
		pivot int
		i     int
	)
	for i = 0; i < n; i++ {
		if tour[i] == start {
			pivot = i
			break
		}
	}
	out := make([]int, n)
	for i = 0; i < n; i++ {
		out[i] = tour[(pivot+i)%n]
	}

	return out, nil
}

// Reflect returns the reverse traversal of the cycle, keeping tour[0] first:
// [a b c d] -> [a d c b].
//
// Complexity: O(n).
func Reflect(tour []int) []int {
	var n = len(tour)
	out := make([]int, n)
	if n == 0 {
		return out
	}
	out[0] = tour[0]
	for i := 1; i < n; i++ {
		out[i] = tour[n-i]
	}

	return out
}

// Canonical rotates tour to start at city 0 and orients it so that the
// second city is smaller than the last one. Two tours describe the same
// undirected cycle iff their canonical forms are equal.
//
// Complexity: O(n).
func Canonical(tour []int) ([]int, error) {
	out, err := Rotate(tour, 0)
	if err != nil {
		return nil, err
	}
	if n := len(out); n > 2 && out[1] > out[n-1] {
		out = Reflect(out)
	}

	return out, nil
}

// EqualModuloRotation reports whether a and b describe the same directed cycle.
//
// Complexity: O(n).
func EqualModuloRotation(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	ra, errA := Rotate(a, a[0])
	rb, errB := Rotate(b, a[0])
	if errA != nil || errB != nil {
		return false
	}

	return equalInts(ra, rb)
}

// EqualModuloSymmetry reports whether a and b describe the same undirected cycle.
//
// Complexity: O(n).
func EqualModuloSymmetry(a, b []int) bool {
	if EqualModuloRotation(a, b) {
		return true
	}

	return EqualModuloRotation(a, Reflect(b))
}

// Closed returns tour with its first city appended: [a b c] -> [a b c a].
func Closed(tour []int) []int {
	if len(tour) == 0 {
		return nil
	}
	out := make([]int, len(tour)+1)
	copy(out, tour)
	out[len(tour)] = tour[0]

	return out
}

// DebugString renders a closed cycle, e.g. "0→1→3→2→0".
func DebugString(tour []int) string {
	var sb strings.Builder
	for i, v := range Closed(tour) {
		if i > 0 {
			sb.WriteString("→")
		}
		sb.WriteString(strconv.Itoa(v))
	}

	return sb.String()
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
