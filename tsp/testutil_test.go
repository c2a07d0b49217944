package tsp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qroute/matrix"
)

// literal4 is the four-city instance whose optimum is 0→1→3→2→0 (cost 13).
var literal4 = [][]float64{
	{0, 1, 9, 9},
	{1, 0, 9, 2},
	{9, 9, 0, 1},
	{9, 2, 1, 0},
}

// mustDense builds a *matrix.Dense or fails the test.
func mustDense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// ringDist places n cities on a ring: dist(i,j) = min(|i-j|, n-|i-j|).
// The optimum cycle cost is n.
func ringDist(n int) [][]float64 {
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			d := math.Abs(float64(i - j))
			dist[i][j] = math.Min(d, float64(n)-d)
		}
	}

	return dist
}

// randomDist returns a deterministic random matrix with integer weights in
// [1,50]. symmetric controls whether dist[i][j] == dist[j][i].
func randomDist(n int, seed int64, symmetric bool) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if symmetric && j < i {
				dist[i][j] = dist[j][i]
				continue
			}
			dist[i][j] = float64(1 + rng.Intn(50))
		}
	}

	return dist
}
