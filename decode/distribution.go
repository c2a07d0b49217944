package decode

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/qroute/anneal"
)

// Entry is one distinct assignment of a sample set.
type Entry struct {
	// Key is the assignment as a string of '0'/'1', one per variable.
	Key string

	// Count is the summed occurrence count of the assignment.
	Count int

	// Energy is the lowest energy reported for the assignment.
	Energy float64

	// Tour is the decoded tour, nil when Err is set.
	Tour []int

	// Err is the *InvalidSampleError of an assignment that encodes no tour.
	Err error
}

// Valid reports whether the entry decodes to a tour.
func (e Entry) Valid() bool { return e.Err == nil }

// Distribution is the frequency table of a sample set, in the order in
// which assignments first appear in the set.
type Distribution struct {
	Entries []Entry
	Reads   int
}

// NewDistribution merges the samples of set by assignment and decodes each
// distinct one for n cities.
func NewDistribution(set anneal.SampleSet, n int) (Distribution, error) {
	var (
		d     Distribution
		index = make(map[string]int, set.Len())
	)
	for i, s := range set.Samples {
		if len(s.Bits) != n*n {
			return Distribution{}, fmt.Errorf("sample %d has %d bits, want %d: %w", i, len(s.Bits), n*n, ErrBitCount)
		}
		d.Reads += s.Occurrences
		key := s.Key()
		if j, ok := index[key]; ok {
			d.Entries[j].Count += s.Occurrences
			if s.Energy < d.Entries[j].Energy {
				d.Entries[j].Energy = s.Energy
			}
			continue
		}
		tour, err := Tour(s.Bits, n)
		if errors.Is(err, ErrNotBinary) {
			return Distribution{}, fmt.Errorf("sample %d: %w", i, err)
		}
		index[key] = len(d.Entries)
		d.Entries = append(d.Entries, Entry{
			Key:    key,
			Count:  s.Occurrences,
			Energy: s.Energy,
			Tour:   tour,
			Err:    err,
		})
	}

	return d, nil
}

// Len returns the number of distinct assignments.
func (d Distribution) Len() int { return len(d.Entries) }

// Counts returns the assignment → occurrence count map.
func (d Distribution) Counts() map[string]int {
	out := make(map[string]int, len(d.Entries))
	for _, e := range d.Entries {
		out[e.Key] = e.Count
	}

	return out
}

// BestValid returns the first entry that decodes to a tour.
func (d Distribution) BestValid() (Entry, bool) {
	for _, e := range d.Entries {
		if e.Valid() {
			return e, true
		}
	}

	return Entry{}, false
}

// Valid returns the entries that decode to a tour, in order.
func (d Distribution) Valid() []Entry {
	var out []Entry
	for _, e := range d.Entries {
		if e.Valid() {
			out = append(out, e)
		}
	}

	return out
}

// ValidFraction returns the share of reads that decode to a tour.
func (d Distribution) ValidFraction() float64 {
	if d.Reads == 0 {
		return 0
	}
	var valid int
	for _, e := range d.Entries {
		if e.Valid() {
			valid += e.Count
		}
	}

	return float64(valid) / float64(d.Reads)
}
