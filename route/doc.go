// Package route runs the routing pipeline end to end:
//
//	locations + distance table
//	  → distance matrix (distance.BuildMatrix)
//	  → QUBO (qubo.Encode)
//	  → sample set (anneal.Solve)
//	  → tour (decode.Best)
//	  → cost (tsp.TourCost)
//
// and optionally compares the annealed route with an exact classical
// baseline. Every run gets a UUID that tags its log entries and its
// OpenTelemetry span; stage durations and outcomes go to a metrics.Collector.
package route
