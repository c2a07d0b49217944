package tsp

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTooManyCities is returned when an instance exceeds a solver's hard limit.
	ErrTooManyCities = errors.New("tsp: too many cities for this solver")

	// ErrUnsupportedAlgorithm is returned by Solve for an unknown Algorithm.
	ErrUnsupportedAlgorithm = errors.New("tsp: unsupported algorithm")

	// ErrIncompleteGraph is returned by HeldKarp when no Hamiltonian cycle exists.
	ErrIncompleteGraph = errors.New("tsp: incomplete distance matrix")
)

// TourDefect classifies why a tour was rejected.
type TourDefect int

const (
	// DefectLength: the tour does not have exactly n entries.
	DefectLength TourDefect = iota + 1
	// DefectRange: an entry is outside [0, n).
	DefectRange
	// DefectDuplicate: an entry appears more than once.
	DefectDuplicate
)

// String implements fmt.Stringer.
func (d TourDefect) String() string {
	switch d {
	case DefectLength:
		return "length"
	case DefectRange:
		return "range"
	case DefectDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// InvalidTourError reports a malformed tour handed to the Cost Evaluator.
// It signals an integration bug in whichever component built the tour.
//
// Position is the offending index into the tour (or its length for
// DefectLength); Value is the city found there (or n for DefectLength).
type InvalidTourError struct {
	Defect   TourDefect
	Position int
	Value    int
}

// Error implements error.
func (e *InvalidTourError) Error() string {
	switch e.Defect {
	case DefectLength:
		return fmt.Sprintf("tsp: invalid tour: %d entries for %d cities", e.Position, e.Value)
	case DefectRange:
		return fmt.Sprintf("tsp: invalid tour: city %d at position %d out of range", e.Value, e.Position)
	default:
		return fmt.Sprintf("tsp: invalid tour: city %d repeated at position %d", e.Value, e.Position)
	}
}

// Result holds the outcome of a classical solver.
type Result struct {
	// Tour is an open permutation starting at city 0.
	Tour []int

	// Cost is the total length of the closed cycle.
	Cost float64

	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration

	// Evaluated counts complete tours scored (BruteForce) or DP states (HeldKarp).
	Evaluated int64
}
