package qubo

import (
	"fmt"
	"sort"
)

// Pair identifies a QUBO coefficient. U <= V always holds; U == V is the
// linear (diagonal) term of variable U.
type Pair struct {
	U, V int
}

// Term is one non-zero coefficient of a QUBO.
type Term struct {
	U, V  int
	Coeff float64
}

// QUBO is an immutable quadratic objective over N² binary variables.
// Construct it with Encode; all accessors return copies.
type QUBO struct {
	n       int              // number of cities
	terms   map[Pair]float64 // upper-triangular coefficients
	ordered []Term           // terms sorted by (U, V); fixed by freeze
	offset  float64          // constant term
	penalty float64          // λ used for both one-hot families
}

// newQUBO allocates an empty objective for n cities.
func newQUBO(n int, penalty float64) *QUBO {
	return &QUBO{n: n, terms: make(map[Pair]float64), penalty: penalty}
}

// add accumulates c into the (u,v) coefficient, canonicalizing u <= v.
func (q *QUBO) add(u, v int, c float64) {
	if c == 0 {
		return
	}
	if u > v {
		u, v = v, u
	}
	q.terms[Pair{U: u, V: v}] += c
}

// Cities returns N.
func (q *QUBO) Cities() int { return q.n }

// Vars returns the number of binary variables, N².
func (q *QUBO) Vars() int { return q.n * q.n }

// Offset returns the constant term of the objective.
func (q *QUBO) Offset() float64 { return q.offset }

// Penalty returns the one-hot penalty weight λ.
func (q *QUBO) Penalty() float64 { return q.penalty }

// Len returns the number of stored coefficients.
func (q *QUBO) Len() int { return len(q.terms) }

// Index returns the variable number of x[city][pos].
func (q *QUBO) Index(city, pos int) (int, error) {
	if city < 0 || city >= q.n || pos < 0 || pos >= q.n {
		return 0, fmt.Errorf("x[%d][%d]: %w", city, pos, ErrVariableRange)
	}

	return city*q.n + pos, nil
}

// Locate is the inverse of Index.
func (q *QUBO) Locate(v int) (city, pos int, err error) {
	if v < 0 || v >= q.Vars() {
		return 0, 0, fmt.Errorf("variable %d: %w", v, ErrVariableRange)
	}

	return v / q.n, v % q.n, nil
}

// Coefficient returns the (u,v) coefficient in either argument order.
func (q *QUBO) Coefficient(u, v int) float64 {
	if u > v {
		u, v = v, u
	}

	return q.terms[Pair{U: u, V: v}]
}

// freeze drops cancelled coefficients and fixes the evaluation order, so
// that Energy sums in the same order on every call.
func (q *QUBO) freeze() {
	q.ordered = make([]Term, 0, len(q.terms))
	for p, c := range q.terms {
		if c == 0 {
			delete(q.terms, p)
			continue
		}
		q.ordered = append(q.ordered, Term{U: p.U, V: p.V, Coeff: c})
	}
	sort.Slice(q.ordered, func(i, j int) bool {
		if q.ordered[i].U != q.ordered[j].U {
			return q.ordered[i].U < q.ordered[j].U
		}
		return q.ordered[i].V < q.ordered[j].V
	})
}

// Terms returns all coefficients ordered by (U, V).
func (q *QUBO) Terms() []Term {
	out := make([]Term, len(q.ordered))
	copy(out, q.ordered)

	return out
}

// Map returns a copy of the coefficient map.
func (q *QUBO) Map() map[Pair]float64 {
	out := make(map[Pair]float64, len(q.terms))
	for p, c := range q.terms {
		out[p] = c
	}

	return out
}

// Energy evaluates the objective, offset included, at a binary assignment.
//
// Errors: ErrAssignmentLength, ErrNotBinary.
// Complexity: O(Len()).
func (q *QUBO) Energy(bits []uint8) (float64, error) {
	if len(bits) != q.Vars() {
		return 0, fmt.Errorf("got %d bits, want %d: %w", len(bits), q.Vars(), ErrAssignmentLength)
	}
	for i, b := range bits {
		if b > 1 {
			return 0, fmt.Errorf("bit %d = %d: %w", i, b, ErrNotBinary)
		}
	}

	var e = q.offset
	for _, t := range q.ordered {
		if bits[t.U] == 1 && bits[t.V] == 1 {
			e += t.Coeff
		}
	}

	return e, nil
}

// EncodeTour returns the assignment of a tour given as perm[position] = city.
func EncodeTour(perm []int, n int) ([]uint8, error) {
	if n <= 0 || len(perm) != n {
		return nil, fmt.Errorf("tour of %d cities for n=%d: %w", len(perm), n, ErrInvalidPermutation)
	}
	seen := make([]bool, n)
	bits := make([]uint8, n*n)
	for pos, city := range perm {
		if city < 0 || city >= n || seen[city] {
			return nil, fmt.Errorf("city %d at position %d: %w", city, pos, ErrInvalidPermutation)
		}
		seen[city] = true
		bits[city*n+pos] = 1
	}

	return bits, nil
}
