package simulated

import (
	"context"
	"math"
	"math/rand"

	"github.com/katalvlaran/qroute/qubo"
)

// coupling is one off-diagonal neighbour of a variable.
type coupling struct {
	v int
	j float64
}

// model is the QUBO in adjacency form; read-only once built.
type model struct {
	h   []float64    // linear coefficients
	adj [][]coupling // symmetric neighbour lists
}

func newModel(q *qubo.QUBO) *model {
	m := &model{
		h:   make([]float64, q.Vars()),
		adj: make([][]coupling, q.Vars()),
	}
	for _, t := range q.Terms() {
		if t.U == t.V {
			m.h[t.U] += t.Coeff
			continue
		}
		m.adj[t.U] = append(m.adj[t.U], coupling{v: t.V, j: t.Coeff})
		m.adj[t.V] = append(m.adj[t.V], coupling{v: t.U, j: t.Coeff})
	}

	return m
}

// betaRange derives the schedule endpoints from the coefficient scale.
func (m *model) betaRange() (hot, cold float64) {
	var (
		maxDelta float64
		minCoeff = math.Inf(1)
	)
	note := func(c float64) {
		if a := math.Abs(c); a > 0 && a < minCoeff {
			minCoeff = a
		}
	}
	for v := range m.h {
		d := math.Abs(m.h[v])
		note(m.h[v])
		for _, c := range m.adj[v] {
			d += math.Abs(c.j)
			note(c.j)
		}
		if d > maxDelta {
			maxDelta = d
		}
	}
	if maxDelta == 0 || math.IsInf(minCoeff, 1) {
		return 1, 1
	}
	hot = math.Ln2 / maxDelta
	cold = math.Log(100) / minCoeff
	if cold <= hot {
		cold = hot
	}

	return hot, cold
}

// anneal runs one read and returns its final assignment.
func (m *model) anneal(ctx context.Context, schedule []float64, rng *rand.Rand) ([]uint8, error) {
	var (
		n     = len(m.h)
		x     = make([]uint8, n)
		field = make([]float64, n) // h[v] + Σ_u J[v][u]·x[u]
		order = make([]int, n)
	)
	for v := 0; v < n; v++ {
		x[v] = uint8(rng.Intn(2))
		order[v] = v
	}
	for v := 0; v < n; v++ {
		field[v] = m.h[v]
		for _, c := range m.adj[v] {
			if x[c.v] == 1 {
				field[v] += c.j
			}
		}
	}

	for _, beta := range schedule {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		shuffleIntsInPlace(order, rng)
		for _, v := range order {
			// Flipping 0→1 adds field[v], 1→0 removes it.
			delta := field[v]
			if x[v] == 1 {
				delta = -delta
			}
			if delta > 0 && rng.Float64() >= math.Exp(-beta*delta) {
				continue
			}
			sign := 1.0
			if x[v] == 1 {
				sign = -1
			}
			x[v] ^= 1
			for _, c := range m.adj[v] {
				field[c.v] += sign * c.j
			}
		}
	}

	return x, nil
}
