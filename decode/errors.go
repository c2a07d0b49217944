package decode

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySampleSet is returned by Best for a set without samples.
	ErrEmptySampleSet = errors.New("decode: empty sample set")

	// ErrBitCount is returned when a sample does not have n² bits.
	ErrBitCount = errors.New("decode: sample length is not n²")

	// ErrNotBinary is returned for a bit value other than 0 or 1.
	ErrNotBinary = errors.New("decode: bit is not 0 or 1")
)

// Family names the constraint family an invalid sample violates.
type Family int

const (
	// PositionFamily: a position holds zero or several cities.
	PositionFamily Family = iota + 1
	// CityFamily: a city holds zero or several positions.
	CityFamily
)

// String implements fmt.Stringer.
func (f Family) String() string {
	switch f {
	case PositionFamily:
		return "position"
	case CityFamily:
		return "city"
	default:
		return "unknown"
	}
}

// InvalidSampleError reports the first one-hot violation of a sample.
//
// For PositionFamily, Index is the position and Conflicts the cities found
// there. For CityFamily, Index is the city and Conflicts its positions.
// Conflicts is empty when nothing was found.
type InvalidSampleError struct {
	Family    Family
	Index     int
	Conflicts []int
}

// Error implements error.
func (e *InvalidSampleError) Error() string {
	switch {
	case e.Family == PositionFamily && len(e.Conflicts) == 0:
		return fmt.Sprintf("decode: invalid sample: no city at position %d", e.Index)
	case e.Family == PositionFamily:
		return fmt.Sprintf("decode: invalid sample: cities %v at position %d", e.Conflicts, e.Index)
	case len(e.Conflicts) == 0:
		return fmt.Sprintf("decode: invalid sample: city %d is never visited", e.Index)
	default:
		return fmt.Sprintf("decode: invalid sample: city %d at positions %v", e.Index, e.Conflicts)
	}
}
