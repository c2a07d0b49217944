// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/qroute/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, 0)                       // zero columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestRowsCols verifies that Rows() and Cols() return correct dimension values.
func TestRowsCols(t *testing.T) {
	rows, cols := 3, 4
	m, err := matrix.NewDense(rows, cols)
	require.NoError(t, err)

	require.Equal(t, rows, m.Rows())
	require.Equal(t, cols, m.Cols())
	r, c := m.Shape()
	require.Equal(t, [2]int{rows, cols}, [2]int{r, c})
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(2, 0, 1.23)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(0, -1, 4.56)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetRejectsNonFinite checks the finite-only numeric policy.
func TestSetRejectsNonFinite(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.ErrorIs(t, m.Set(0, 1, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(1, 0, math.Inf(1)), matrix.ErrNaNInf)
}

// TestSetGet validates Set() followed by At() on valid indices.
func TestSetGet(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, 7.89))

	val, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 7.89, val)
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{1, 0}, {0, 2}})
	require.NoError(t, err)

	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 3.0)) // modify the clone only

	origVal, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, origVal) // original unchanged

	cloneVal, err := clone.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, cloneVal)
}

// TestNewFromRows covers the happy path and ragged/empty inputs.
func TestNewFromRows(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{0, 1, 2}, {3, 0, 4}})
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())

	row, err := m.Row(1)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 0, 4}, row)

	row[0] = 99 // Row returns a copy
	v, _ := m.At(1, 0)
	require.Equal(t, 3.0, v)

	_, err = matrix.NewFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewFromRows([][]float64{{0, 1}, {1}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestString renders one bracketed line per row.
func TestString(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{0, 1.5}, {2, 0}})
	require.NoError(t, err)
	require.Equal(t, "[0, 1.5]\n[2, 0]\n", m.String())
}
