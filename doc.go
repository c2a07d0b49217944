// Package qroute finds short round trips through a set of locations by
// encoding the travelling salesman problem as a QUBO and sampling it on a
// quantum annealer (D-Wave SAPI) or a local sampler.
//
// What is inside?
//
//   - Distance matrices built from a sparse location table
//   - QUBO encoding of the tour with a penalty that keeps invalid assignments
//     above every valid one
//   - Samplers: D-Wave SAPI client, simulated annealing, exhaustive (exact)
//   - Decoding of samples back into tours, with a frequency table of all reads
//   - Tour cost evaluation and exact classical baselines (brute force, Held–Karp)
//
// Packages:
//
//	matrix/       dense square matrices, validators, sentinel errors
//	distance/     location tables and distance-matrix construction
//	dataset/      CSV loaders for distances and country codes
//	qubo/         QUBO model and the tour encoding
//	anneal/       Sampler interface, solve adapter, sample sets
//	  sapi/       D-Wave SAPI REST client
//	  simulated/  Metropolis simulated annealing
//	  exact/      exhaustive ground-state enumeration for small problems
//	decode/       sample → tour decoding and read distributions
//	tsp/          tour cost, brute force, Held–Karp
//	route/        end-to-end pipeline with logging, tracing and metrics
//	config/       YAML + environment configuration
//	metrics/      Prometheus collectors
//	cmd/qroute    command-line interface
//
// Quick example (exact sampler, four cities):
//
//	opt := route.New(exact.Sampler{}, anneal.Config{NumReads: 8})
//	res, err := opt.Optimize(ctx, []string{"A", "B", "C", "D"}, table)
//	// res.Route: [A B D C], res.Cost: 13
//
// Variables are indexed city*N+position, so an N-city tour needs N² qubits.
// Without minor-embedding, QPU solvers accept only problems whose couplers
// exist on the chip; use the simulated or exact sampler for anything else.
//
//	go install github.com/katalvlaran/qroute/cmd/qroute@latest
package qroute
