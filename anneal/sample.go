package anneal

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/katalvlaran/qroute/qubo"
)

// Sample is one assignment returned by a sampler.
type Sample struct {
	// Bits holds x[v] for every variable v, each 0 or 1.
	Bits []uint8

	// Energy is the QUBO energy of Bits, offset included.
	Energy float64

	// Occurrences counts how many reads ended in Bits.
	Occurrences int
}

// Key renders Bits as a string of '0' and '1', usable as a map key.
func (s Sample) Key() string {
	var sb strings.Builder
	sb.Grow(len(s.Bits))
	for _, b := range s.Bits {
		sb.WriteByte('0' + b)
	}

	return sb.String()
}

// SampleSet is the answer of one solve.
type SampleSet struct {
	// Solver is the identifier of the solver that produced the samples.
	Solver string

	// Samples in the order described in the package documentation.
	Samples []Sample

	// ProblemID is the backend's identifier for the submitted problem, if any.
	ProblemID string
}

// Len returns the number of distinct samples.
func (s SampleSet) Len() int { return len(s.Samples) }

// Reads returns the total occurrence count over all samples.
func (s SampleSet) Reads() int {
	var total int
	for _, smp := range s.Samples {
		total += smp.Occurrences
	}

	return total
}

// Best returns the first sample and false for an empty set.
func (s SampleSet) Best() (Sample, bool) {
	if len(s.Samples) == 0 {
		return Sample{}, false
	}

	return s.Samples[0], true
}

// Sort orders samples by ascending energy, then descending occurrences.
// Equal samples keep their relative order.
func (s *SampleSet) Sort() {
	sort.SliceStable(s.Samples, func(i, j int) bool {
		a, b := s.Samples[i], s.Samples[j]
		if a.Energy != b.Energy {
			return a.Energy < b.Energy
		}
		return a.Occurrences > b.Occurrences
	})
}

// Params are the per-call sampler parameters.
type Params struct {
	// Solver is the solver identifier to run on. Local samplers accept only their own Name.
	Solver string

	// NumReads is the number of anneals to perform (samples requested).
	NumReads int

	// AnnealingTime is the duration of one anneal; zero keeps the backend default.
	AnnealingTime time.Duration

	// Seed makes local samplers deterministic; 0 selects the package default.
	Seed int64

	// Label tags the problem on backends that support it.
	Label string
}

// Sampler draws low-energy samples of a QUBO.
type Sampler interface {
	// Name returns the solver identifier used when Params.Solver is empty.
	Name() string

	// Sample runs the QUBO and returns its samples in any order.
	Sample(ctx context.Context, q *qubo.QUBO, p Params) (SampleSet, error)
}
