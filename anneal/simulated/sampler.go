// Package simulated is a classical stand-in for a quantum annealer: it
// samples a QUBO with single-bit-flip Metropolis simulated annealing.
//
// Each read starts from a uniformly random assignment and performs a fixed
// number of sweeps. A sweep visits every variable once in a freshly shuffled
// order and flips it with probability min(1, exp(−β·ΔE)). β follows a
// geometric schedule from a hot value, where the largest possible ΔE is
// accepted half the time, to a cold value, where the smallest non-zero
// coefficient is accepted with probability 1/100.
//
// Reads are independent, each with its own RNG stream derived from
// Params.Seed, and may run in parallel; identical final assignments are
// merged into one sample with an occurrence count. The result does not depend
// on the worker count.
package simulated

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/qubo"
)

// DefaultName is the solver identifier reported by a Sampler built without WithName.
const DefaultName = "simulated-annealing"

// DefaultSweeps is the number of sweeps per read.
const DefaultSweeps = 1000

// ErrUnknownSolver is returned when Params.Solver names another solver.
var ErrUnknownSolver = errors.New("simulated: unknown solver")

// Option configures a Sampler.
type Option func(*Sampler)

// WithName overrides the solver identifier.
func WithName(name string) Option { return func(s *Sampler) { s.name = name } }

// WithSweeps sets the sweeps per read (values < 1 are ignored).
func WithSweeps(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.sweeps = n
		}
	}
}

// WithBetaRange fixes the inverse-temperature schedule endpoints instead of
// deriving them from the coefficients. Both must be positive with hot < cold.
func WithBetaRange(hot, cold float64) Option {
	return func(s *Sampler) { s.betaHot, s.betaCold = hot, cold }
}

// WithWorkers runs up to k reads concurrently (k <= 1 means sequential).
func WithWorkers(k int) Option { return func(s *Sampler) { s.workers = k } }

// Sampler implements anneal.Sampler. It is safe for concurrent use.
type Sampler struct {
	name              string
	sweeps            int
	betaHot, betaCold float64
	workers           int
}

var _ anneal.Sampler = (*Sampler)(nil)

// New returns a Sampler with the given options applied.
func New(opts ...Option) *Sampler {
	s := &Sampler{name: DefaultName, sweeps: DefaultSweeps, workers: 1}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name implements anneal.Sampler.
func (s *Sampler) Name() string { return s.name }

// Sample implements anneal.Sampler. Params.AnnealingTime is ignored.
func (s *Sampler) Sample(ctx context.Context, q *qubo.QUBO, p anneal.Params) (anneal.SampleSet, error) {
	if q == nil {
		return anneal.SampleSet{}, anneal.ErrNilQUBO
	}
	if p.Solver != "" && p.Solver != s.name {
		return anneal.SampleSet{}, fmt.Errorf("%q: %w", p.Solver, ErrUnknownSolver)
	}
	reads := p.NumReads
	if reads <= 0 {
		reads = 1
	}

	m := newModel(q)
	hot, cold := s.betaHot, s.betaCold
	if hot <= 0 || cold <= 0 || hot >= cold {
		hot, cold = m.betaRange()
	}
	schedule := geometric(hot, cold, s.sweeps)

	// Streams are derived in read order before fan-out.
	base := rngFromSeed(p.Seed)
	streams := make([]*rand.Rand, reads)
	for r := range streams {
		streams[r] = deriveRNG(base, uint64(r))
	}

	finals := make([][]uint8, reads)
	g, gctx := errgroup.WithContext(ctx)
	if s.workers > 1 {
		g.SetLimit(s.workers)
	} else {
		g.SetLimit(1)
	}
	for r := 0; r < reads; r++ {
		r := r
		g.Go(func() error {
			x, err := m.anneal(gctx, schedule, streams[r])
			if err != nil {
				return err
			}
			finals[r] = x
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return anneal.SampleSet{}, err
	}

	return aggregate(q, s.name, finals)
}

// aggregate merges identical assignments in first-seen order.
func aggregate(q *qubo.QUBO, solver string, finals [][]uint8) (anneal.SampleSet, error) {
	set := anneal.SampleSet{Solver: solver}
	index := make(map[string]int, len(finals))
	for _, x := range finals {
		smp := anneal.Sample{Bits: x, Occurrences: 1}
		key := smp.Key()
		if i, ok := index[key]; ok {
			set.Samples[i].Occurrences++
			continue
		}
		e, err := q.Energy(x)
		if err != nil {
			return anneal.SampleSet{}, err
		}
		smp.Energy = e
		index[key] = len(set.Samples)
		set.Samples = append(set.Samples, smp)
	}

	return set, nil
}

// geometric returns sweeps inverse temperatures from hot to cold.
func geometric(hot, cold float64, sweeps int) []float64 {
	out := make([]float64, sweeps)
	if sweeps == 1 {
		out[0] = cold
		return out
	}
	ratio := math.Pow(cold/hot, 1/float64(sweeps-1))
	beta := hot
	for i := range out {
		out[i] = beta
		beta *= ratio
	}
	out[sweeps-1] = cold

	return out
}
