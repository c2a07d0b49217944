// Package sapi is a client for the D-Wave Solver API (SAPI) REST interface
// and an anneal.Sampler backed by a remote quantum annealer.
//
// Endpoints used, relative to the configured base URL:
//
//	GET  solvers/remote/        list solvers with their properties
//	GET  solvers/remote/{id}/   one solver
//	POST problems/              submit a problem
//	GET  problems/{id}/         poll status and fetch the answer
//
// Problems are sent in the "qp" format: base64 of little-endian float64
// biases, one per qubit (NaN for qubits the solver does not expose) and one per
// coupler in the solver's coupler order. Answers come back in the same
// format and are unpacked into anneal.Samples.
//
// QUBO variables are used as physical qubit indices as they are. The client
// does not minor-embed: a problem whose variables or couplings are not all
// available on the solver's working graph is rejected with ErrNotEmbeddable
// before anything is submitted.
//
// All HTTP round trips go through a circuit breaker and an otelhttp-instrumented
// transport; polling is paced by a rate limiter.
package sapi
