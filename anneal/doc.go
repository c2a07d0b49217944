// Package anneal is the Annealing Solver Adapter.
//
// A Sampler draws low-energy assignments of a QUBO. Three backends ship with
// the module:
//
//   - sapi.Client: a remote quantum annealer reached over the D-Wave SAPI REST API.
//   - simulated.Sampler: classical single-bit-flip simulated annealing.
//   - exact.Sampler: exhaustive enumeration for tiny problems.
//
// Solve wraps any Sampler with the checks a caller needs before trusting its
// output: the QUBO matches the instance size, every sample has N² bits, and
// the set was produced by the solver that was asked for. Any failure on the
// sampler side is reported as *SolveUnavailableError so callers can tell "no
// answer available" apart from a malformed request.
//
// Sample order. A SampleSet returned by Solve is sorted by ascending energy,
// then by descending occurrence count; the first sample is the best one.
package anneal
