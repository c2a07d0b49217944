// Package distance turns a sparse table of pairwise location distances into
// the dense square matrix consumed by the QUBO encoder and the classical
// solvers.
//
// A Table maps an ordered pair of location identifiers to a non-negative
// distance. BuildMatrix selects N locations from it and produces an N×N
// *matrix.Dense with a zero diagonal. A pair with no distance is never
// defaulted: BuildMatrix fails with *MissingDistanceError naming both
// locations.
//
// Direction policy: by default every ordered pair (i,j), i≠j, must resolve
// from the table in its own direction. A pair listed only in the opposite
// direction fails with a MissingDistanceError whose Reverse flag is set.
// WithAssumeSymmetric relaxes this and mirrors one-directional entries.
package distance
