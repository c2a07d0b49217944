package distance

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned for an empty selection, empty identifiers
	// or duplicate identifiers.
	ErrInvalidSelection = errors.New("distance: invalid location selection")

	// ErrInvalidDistance is returned for a negative, NaN or infinite distance.
	ErrInvalidDistance = errors.New("distance: invalid distance value")
)

// MissingDistanceError reports a selected pair of locations with no usable
// distance in the table.
//
// Reverse is false when neither (From,To) nor (To,From) is present. It is
// true when only (To,From) exists and the builder was not told to assume
// symmetry.
type MissingDistanceError struct {
	From    string
	To      string
	Reverse bool
}

// Error implements error.
func (e *MissingDistanceError) Error() string {
	if e.Reverse {
		return fmt.Sprintf("distance: no distance from %s to %s (only %s to %s is listed)", e.From, e.To, e.To, e.From)
	}

	return fmt.Sprintf("distance: no distance between %s and %s", e.From, e.To)
}
