package distance_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/qroute/distance"
	"github.com/stretchr/testify/require"
)

// symmetricTable lists every pair in both directions.
func symmetricTable(t *testing.T, entries map[distance.Pair]float64) *distance.Table {
	t.Helper()
	tbl := distance.NewTable()
	for p, d := range entries {
		require.NoError(t, tbl.Set(p.From, p.To, d))
		require.NoError(t, tbl.Set(p.To, p.From, d))
	}

	return tbl
}

func TestBuildMatrix_Dense(t *testing.T) {
	tbl := symmetricTable(t, map[distance.Pair]float64{
		{From: "DNK", To: "NLD"}: 420,
		{From: "DNK", To: "NOR"}: 350,
		{From: "NLD", To: "NOR"}: 600,
	})

	m, err := distance.BuildMatrix([]string{"NOR", "DNK", "NLD"}, tbl)
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows())

	want := [][]float64{
		{0, 350, 600},
		{350, 0, 420},
		{600, 420, 0},
	}
	for i := range want {
		row, err := m.Row(i)
		require.NoError(t, err)
		require.Equal(t, want[i], row)
	}
}

func TestBuildMatrix_Asymmetric(t *testing.T) {
	tbl := distance.NewTable()
	require.NoError(t, tbl.Set("A", "B", 1))
	require.NoError(t, tbl.Set("B", "A", 2))

	m, err := distance.BuildMatrix([]string{"A", "B"}, tbl)
	require.NoError(t, err)
	ab, _ := m.At(0, 1)
	ba, _ := m.At(1, 0)
	require.Equal(t, 1.0, ab)
	require.Equal(t, 2.0, ba)
}

func TestBuildMatrix_MissingBothDirections(t *testing.T) {
	tbl := symmetricTable(t, map[distance.Pair]float64{
		{From: "X", To: "Z"}: 3,
		{From: "Y", To: "Z"}: 4,
	})

	_, err := distance.BuildMatrix([]string{"X", "Y", "Z"}, tbl)
	var missing *distance.MissingDistanceError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "X", missing.From)
	require.Equal(t, "Y", missing.To)
	require.False(t, missing.Reverse)
	require.Contains(t, err.Error(), "X")
	require.Contains(t, err.Error(), "Y")

	// Assuming symmetry does not invent a distance that is absent both ways.
	_, err = distance.BuildMatrix([]string{"X", "Y", "Z"}, tbl, distance.WithAssumeSymmetric())
	require.True(t, errors.As(err, &missing))
}

func TestBuildMatrix_OneDirectionPolicy(t *testing.T) {
	tbl := distance.NewTable()
	require.NoError(t, tbl.Set("A", "B", 5))

	_, err := distance.BuildMatrix([]string{"A", "B"}, tbl)
	var missing *distance.MissingDistanceError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "B", missing.From)
	require.Equal(t, "A", missing.To)
	require.True(t, missing.Reverse)

	m, err := distance.BuildMatrix([]string{"A", "B"}, tbl, distance.WithAssumeSymmetric())
	require.NoError(t, err)
	ba, _ := m.At(1, 0)
	require.Equal(t, 5.0, ba)
}

func TestBuildMatrix_InvalidSelection(t *testing.T) {
	tbl := distance.NewTable()

	tests := []struct {
		name string
		sel  []string
	}{
		{"empty", nil},
		{"blank id", []string{"A", ""}},
		{"duplicate", []string{"A", "B", "A"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := distance.BuildMatrix(tc.sel, tbl)
			require.ErrorIs(t, err, distance.ErrInvalidSelection)
		})
	}

	_, err := distance.BuildMatrix([]string{"A"}, nil)
	require.ErrorIs(t, err, distance.ErrInvalidSelection)
}

func TestTable(t *testing.T) {
	tbl := distance.NewTable()
	require.ErrorIs(t, tbl.Set("A", "B", -1), distance.ErrInvalidDistance)
	require.ErrorIs(t, tbl.Set("", "B", 1), distance.ErrInvalidSelection)

	require.NoError(t, tbl.Set("B", "A", 7))
	_, ok := tbl.Lookup("A", "B")
	require.False(t, ok)
	d, ok := tbl.Either("A", "B")
	require.True(t, ok)
	require.Equal(t, 7.0, d)

	require.Equal(t, 1, tbl.Len())
	require.Equal(t, []string{"A", "B"}, tbl.Locations())
}
