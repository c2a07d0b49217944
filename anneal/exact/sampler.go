// Package exact is a ground-truth sampler: it evaluates every one of the 2^V
// assignments of a QUBO and returns the lowest-energy ones.
//
// Enumeration walks the assignments in Gray-code order, so consecutive
// assignments differ in one bit and each energy is an O(degree) update of the
// previous one. Only problems with at most MaxVars variables are accepted
// (N = 4 cities is 16 variables; N = 5 is already 25).
package exact

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/qubo"
)

// DefaultName is the solver identifier reported by the sampler.
const DefaultName = "exact"

// MaxVars is the largest problem the sampler enumerates.
const MaxVars = 24

// ctxCheckEvery is how many assignments are visited between cancellation checks.
const ctxCheckEvery = 1 << 14

var (
	// ErrTooManyVariables is returned for problems larger than MaxVars.
	ErrTooManyVariables = errors.New("exact: too many variables")

	// ErrUnknownSolver is returned when Params.Solver names another solver.
	ErrUnknownSolver = errors.New("exact: unknown solver")
)

// Sampler implements anneal.Sampler by exhaustive enumeration.
type Sampler struct{}

var _ anneal.Sampler = Sampler{}

// Name implements anneal.Sampler.
func (Sampler) Name() string { return DefaultName }

// Sample returns the Params.NumReads lowest-energy assignments (at least
// one), each with one occurrence. Ties keep the assignment enumerated first.
func (Sampler) Sample(ctx context.Context, q *qubo.QUBO, p anneal.Params) (anneal.SampleSet, error) {
	if q == nil {
		return anneal.SampleSet{}, anneal.ErrNilQUBO
	}
	if p.Solver != "" && p.Solver != DefaultName {
		return anneal.SampleSet{}, fmt.Errorf("%q: %w", p.Solver, ErrUnknownSolver)
	}
	n := q.Vars()
	if n > MaxVars {
		return anneal.SampleSet{}, fmt.Errorf("%d variables (max %d): %w", n, MaxVars, ErrTooManyVariables)
	}
	keep := p.NumReads
	if keep <= 0 {
		keep = 1
	}

	// Neighbour lists for the incremental update.
	h := make([]float64, n)
	adj := make([][]neighbour, n)
	for _, t := range q.Terms() {
		if t.U == t.V {
			h[t.U] += t.Coeff
			continue
		}
		adj[t.U] = append(adj[t.U], neighbour{v: t.V, j: t.Coeff})
		adj[t.V] = append(adj[t.V], neighbour{v: t.U, j: t.Coeff})
	}

	var (
		x      = make([]uint8, n)
		energy = q.Offset() // all-zero assignment
		best   = &topK{}
		total  = uint64(1) << n
		step   uint64
	)
	best.offer(candidate{code: 0, energy: energy, seq: 0}, keep)
	for step = 1; step < total; step++ {
		if step%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return anneal.SampleSet{}, err
			}
		}
		v := bits.TrailingZeros64(step) // Gray code flips this bit
		delta := h[v]
		for _, nb := range adj[v] {
			if x[nb.v] == 1 {
				delta += nb.j
			}
		}
		if x[v] == 1 {
			delta = -delta
		}
		x[v] ^= 1
		energy += delta
		best.offer(candidate{code: step ^ (step >> 1), energy: energy, seq: step}, keep)
	}

	// Pop yields the worst first; fill from the back.
	set := anneal.SampleSet{Solver: DefaultName, Samples: make([]anneal.Sample, best.Len())}
	for i := best.Len() - 1; i >= 0; i-- {
		c := heap.Pop(best).(candidate)
		b := make([]uint8, n)
		for v := 0; v < n; v++ {
			b[v] = uint8(c.code >> v & 1)
		}
		// Recompute from scratch to shed accumulated rounding.
		e, err := q.Energy(b)
		if err != nil {
			return anneal.SampleSet{}, err
		}
		set.Samples[i] = anneal.Sample{Bits: b, Energy: e, Occurrences: 1}
	}

	return set, nil
}

type neighbour struct {
	v int
	j float64
}

// candidate is an enumerated assignment; code holds bit v at position v.
type candidate struct {
	code   uint64
	energy float64
	seq    uint64
}

// topK is a max-heap on (energy, seq) holding the best candidates seen.
type topK []candidate

func (t topK) Len() int { return len(t) }
func (t topK) Less(i, j int) bool {
	if t[i].energy != t[j].energy {
		return t[i].energy > t[j].energy
	}
	return t[i].seq > t[j].seq
}
func (t topK) Swap(i, j int) { t[i], t[j] = t[j], t[i] }
func (t *topK) Push(x any)   { *t = append(*t, x.(candidate)) }
func (t *topK) Pop() any {
	old := *t
	c := old[len(old)-1]
	*t = old[:len(old)-1]
	return c
}

// offer keeps c if fewer than k candidates are held or c beats the worst.
func (t *topK) offer(c candidate, k int) {
	if t.Len() < k {
		heap.Push(t, c)
		return
	}
	w := (*t)[0]
	if c.energy < w.energy || (c.energy == w.energy && c.seq < w.seq) {
		(*t)[0] = c
		heap.Fix(t, 0)
	}
}
