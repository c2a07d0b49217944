// Package decode is the Result Decoder: it turns annealer samples back into
// tours.
//
// A sample of N² bits is a valid tour iff every position holds exactly one
// city and every city holds exactly one position. Bit x[c][p] sits at index
// c*N + p, and the decoded tour lists, position by position, the city
// visited there.
//
// Invalid samples are reported with *InvalidSampleError naming the first
// violated constraint. Positions are checked before cities, each in
// ascending order, so the reported violation is deterministic.
package decode
