package qubo

import (
	"errors"
	"fmt"
)

var (
	// ErrPenaltyTooWeak is returned when an explicit penalty does not exceed
	// the lower bound reported by PenaltyBound.
	ErrPenaltyTooWeak = errors.New("qubo: penalty weight too weak")

	// ErrAssignmentLength is returned when an assignment does not have N² bits.
	ErrAssignmentLength = errors.New("qubo: assignment length mismatch")

	// ErrNotBinary is returned when an assignment holds a value other than 0 or 1.
	ErrNotBinary = errors.New("qubo: assignment value is not binary")

	// ErrVariableRange is returned for a variable, city or position index out of range.
	ErrVariableRange = errors.New("qubo: variable index out of range")

	// ErrInvalidPermutation is returned by EncodeTour for a malformed permutation.
	ErrInvalidPermutation = errors.New("qubo: invalid permutation")
)

// MinCities is the smallest instance the encoder accepts.
const MinCities = 3

// DegenerateMatrixError reports a problem too small to encode as a tour.
type DegenerateMatrixError struct {
	N int
}

// Error implements error.
func (e *DegenerateMatrixError) Error() string {
	return fmt.Sprintf("qubo: %d cities cannot form a tour, need at least %d", e.N, MinCities)
}
