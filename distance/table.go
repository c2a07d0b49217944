package distance

import (
	"fmt"
	"math"
	"sort"
)

// Pair is an ordered pair of location identifiers.
type Pair struct {
	From string
	To   string
}

// Table maps ordered location pairs to non-negative distances.
// The zero value is not usable; construct with NewTable.
//
// A Table is not safe for concurrent mutation; once loaded it is read-only
// for the lifetime of a request.
type Table struct {
	dist map[Pair]float64
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{dist: make(map[Pair]float64)}
}

// Set records the distance from -> to. A later Set on the same ordered pair
// overwrites the earlier value.
//
// Errors: ErrInvalidSelection for empty identifiers, ErrInvalidDistance for
// negative or non-finite distances.
func (t *Table) Set(from, to string, d float64) error {
	if from == "" || to == "" {
		return fmt.Errorf("set %q->%q: %w", from, to, ErrInvalidSelection)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("set %s->%s = %v: %w", from, to, d, ErrInvalidDistance)
	}
	t.dist[Pair{From: from, To: to}] = d

	return nil
}

// Lookup returns the distance recorded for exactly from -> to.
func (t *Table) Lookup(from, to string) (float64, bool) {
	d, ok := t.dist[Pair{From: from, To: to}]

	return d, ok
}

// Either returns the distance for from -> to, falling back to to -> from.
// The second result reports whether either direction was found.
func (t *Table) Either(from, to string) (float64, bool) {
	if d, ok := t.Lookup(from, to); ok {
		return d, true
	}

	return t.Lookup(to, from)
}

// Len returns the number of ordered pairs stored.
func (t *Table) Len() int { return len(t.dist) }

// Locations returns every identifier mentioned in the table, sorted.
func (t *Table) Locations() []string {
	seen := make(map[string]struct{}, len(t.dist))
	for p := range t.dist {
		seen[p.From] = struct{}{}
		seen[p.To] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}
