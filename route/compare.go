package route

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/katalvlaran/qroute/matrix"
	"github.com/katalvlaran/qroute/metrics"
	"github.com/katalvlaran/qroute/tsp"
)

// ErrNoMatrix is returned by Compare for a Result without a distance matrix.
var ErrNoMatrix = errors.New("route: result has no distance matrix")

// gapTol absorbs the rounding left in tour costs.
const gapTol = 1e-9

// Comparison pairs an annealed route with a classical baseline.
type Comparison struct {
	Algorithm tsp.Algorithm
	Baseline  tsp.Result

	// Route names the baseline tour.
	Route []string

	// Gap is (annealed − baseline) / baseline. It is +Inf when the annealed
	// run produced no tour, and 0 when both costs are zero.
	Gap float64

	// Optimal reports whether the annealed tour matches the baseline cost.
	Optimal bool
}

// Compare solves res's instance with algo and measures the annealed route
// against it. Instances above the compare limit fail with
// tsp.ErrTooManyCities before any search starts.
//
// res may be the partial Result of an invalid run; the baseline is still
// computed.
func (o *Optimizer) Compare(ctx context.Context, res *Result, algo tsp.Algorithm) (cmp *Comparison, err error) {
	if res == nil || res.Matrix == nil {
		return nil, ErrNoMatrix
	}
	n := res.Matrix.Rows()
	ctx, span := o.tracer.Start(ctx, "route.Compare")
	span.SetAttributes(
		attribute.String("qroute.run_id", res.RunID.String()),
		attribute.String("tsp.algorithm", algo.String()),
		attribute.Int("qroute.cities", n),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if o.compareLimit > 0 && n > o.compareLimit {
		return nil, fmt.Errorf("route: compare %d cities (limit %d): %w", n, o.compareLimit, tsp.ErrTooManyCities)
	}

	var opts []tsp.BruteOption
	if o.workers > 1 {
		opts = append(opts, tsp.WithWorkers(o.workers))
	}
	if matrix.IsSymmetric(res.Matrix, tsp.SymmetryTolerance) {
		opts = append(opts, tsp.WithSkipMirrors())
	}

	start := time.Now()
	baseline, err := tsp.Solve(ctx, res.Matrix, algo, opts...)
	o.metrics.ObserveStage(metrics.StageCompare, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("route: compare: %w", err)
	}

	cmp = &Comparison{
		Algorithm: algo,
		Baseline:  baseline,
		Route:     Names(res.Locations, baseline.Tour),
		Gap:       gap(res, baseline.Cost),
	}
	cmp.Optimal = res.Tour != nil && cmp.Gap <= gapTol
	span.SetAttributes(attribute.Float64("tsp.cost", baseline.Cost), attribute.Float64("qroute.gap", cmp.Gap))
	o.log.WithFields(logrus.Fields{
		"run_id":    res.RunID.String(),
		"algorithm": algo.String(),
		"cost":      baseline.Cost,
		"gap":       cmp.Gap,
		"elapsed":   baseline.Elapsed,
	}).Info("classical baseline computed")

	return cmp, nil
}

func gap(res *Result, baseline float64) float64 {
	switch {
	case res.Tour == nil:
		return math.Inf(1)
	case baseline == 0:
		if res.Cost == 0 {
			return 0
		}
		return math.Inf(1)
	default:
		return (res.Cost - baseline) / baseline
	}
}

// Names maps a tour of indices onto location names. Indices outside
// locations map to "".
func Names(locations []string, tour []int) []string {
	if tour == nil {
		return nil
	}
	out := make([]string, len(tour))
	for i, c := range tour {
		if c >= 0 && c < len(locations) {
			out[i] = locations[c]
		}
	}

	return out
}

// sortCandidates orders by cost, then by descending count. The sort is
// stable so equal candidates keep distribution order.
func sortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Cost != cs[j].Cost {
			return cs[i].Cost < cs[j].Cost
		}
		return cs[i].Count > cs[j].Count
	})
}
