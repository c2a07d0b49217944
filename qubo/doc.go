// Package qubo encodes a TSP distance matrix as a Quadratic Unconstrained
// Binary Optimization problem.
//
// Variables. For N cities there are N² binary variables x[c][p], "city c is
// visited at tour position p", numbered c*N + p.
//
// Objective. Encode builds
//
//	E(x) = Σ_p Σ_{a≠b} M[a][b]·x[a][p]·x[b][p+1 mod N]
//	     + λ·Σ_p (Σ_c x[c][p] − 1)²
//	     + λ·Σ_c (Σ_p x[c][p] − 1)²
//
// and stores it expanded (x² = x) as linear terms −2λ, pair terms +2λ for
// variables sharing a position or a city, distance terms between adjacent
// positions, and the constant 2Nλ in Offset. With the offset included, the
// energy of a valid assignment is exactly the length of its tour.
//
// Penalty. Any assignment violating a one-hot constraint pays at least 2λ in
// penalty, and no valid tour is longer than U = Σ_a max_b M[a][b]. The
// encoder therefore requires λ > max(2·maxD, U/2): the weight strictly exceeds
// twice the largest distance, and no invalid assignment can reach the energy
// of any valid one.
package qubo
