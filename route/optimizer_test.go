package route_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/anneal/exact"
	"github.com/katalvlaran/qroute/anneal/simulated"
	"github.com/katalvlaran/qroute/decode"
	"github.com/katalvlaran/qroute/distance"
	"github.com/katalvlaran/qroute/metrics"
	"github.com/katalvlaran/qroute/qubo"
	"github.com/katalvlaran/qroute/route"
	"github.com/katalvlaran/qroute/tsp"
)

var cities = []string{"Austria", "Belgium", "Croatia", "Denmark"}

// literalTable is symmetric with the unique optimal cycle A→B→D→C→A of cost 13.
func literalTable(t *testing.T) *distance.Table {
	t.Helper()
	tbl := distance.NewTable()
	for _, e := range []struct {
		from, to string
		d        float64
	}{
		{"Austria", "Belgium", 1},
		{"Austria", "Croatia", 9},
		{"Austria", "Denmark", 9},
		{"Belgium", "Croatia", 9},
		{"Belgium", "Denmark", 2},
		{"Croatia", "Denmark", 1},
	} {
		require.NoError(t, tbl.Set(e.from, e.to, e.d))
		require.NoError(t, tbl.Set(e.to, e.from, e.d))
	}

	return tbl
}

func quietLogger() logrus.FieldLogger {
	l, _ := logtest.NewNullLogger()
	return l
}

type fakeSampler struct {
	set anneal.SampleSet
	err error
}

func (f *fakeSampler) Name() string { return "fake" }

func (f *fakeSampler) Sample(context.Context, *qubo.QUBO, anneal.Params) (anneal.SampleSet, error) {
	return f.set, f.err
}

func bits(s string) []uint8 {
	out := make([]uint8, len(s))
	for i := range s {
		out[i] = s[i] - '0'
	}

	return out
}

func TestOptimize_ExactSampler(t *testing.T) {
	mc := metrics.NewCollector(metrics.DefaultNamespace)
	opt := route.New(exact.Sampler{}, anneal.Config{NumReads: 8},
		route.WithLogger(quietLogger()), route.WithMetrics(mc))

	res, err := opt.Optimize(context.Background(), cities, literalTable(t))
	require.NoError(t, err)
	require.Equal(t, 13.0, res.Cost)
	require.True(t, tsp.EqualModuloSymmetry([]int{0, 1, 3, 2}, res.Tour))
	require.Len(t, res.Route, 4)
	require.Equal(t, "Austria", res.Route[0])
	require.Equal(t, exact.DefaultName, res.SampleSet.Solver)
	require.NotEmpty(t, res.RunID.String())
	require.Greater(t, res.Penalty, 18.0)

	require.NotEmpty(t, res.Candidates)
	require.Equal(t, 13.0, res.Candidates[0].Cost)
	for i := 1; i < len(res.Candidates); i++ {
		require.LessOrEqual(t, res.Candidates[i-1].Cost, res.Candidates[i].Cost)
	}
	require.Equal(t, 1.0, testutil.ToFloat64(mc.Runs.WithLabelValues(exact.DefaultName, metrics.OutcomeOK)))
	require.Equal(t, 13.0, testutil.ToFloat64(mc.TourCost))
}

func TestOptimize_SimulatedSampler(t *testing.T) {
	opt := route.New(simulated.New(), anneal.Config{NumReads: 20, Seed: 7},
		route.WithLogger(quietLogger()))

	res, err := opt.Optimize(context.Background(), cities, literalTable(t))
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.Cost, 13.0)
	require.ElementsMatch(t, []int{0, 1, 2, 3}, res.Tour)
	require.Equal(t, 20, res.Distribution.Reads)
}

func TestOptimize_InvalidBestSample(t *testing.T) {
	three := cities[:3]
	f := &fakeSampler{set: anneal.SampleSet{Solver: "fake", Samples: []anneal.Sample{
		{Bits: bits("100010001"), Energy: 19, Occurrences: 3},
		{Bits: bits("100100001"), Energy: -4, Occurrences: 1},
	}}}
	mc := metrics.NewCollector(metrics.DefaultNamespace)
	opt := route.New(f, anneal.Config{}, route.WithLogger(quietLogger()), route.WithMetrics(mc))

	res, err := opt.Optimize(context.Background(), three, literalTable(t))
	var ise *decode.InvalidSampleError
	require.ErrorAs(t, err, &ise)
	require.Equal(t, decode.PositionFamily, ise.Family)

	require.NotNil(t, res)
	require.Nil(t, res.Tour)
	require.Equal(t, 4, res.Distribution.Reads)
	require.Len(t, res.Candidates, 1)
	require.Equal(t, []int{0, 1, 2}, res.Candidates[0].Tour)
	require.Equal(t, 19.0, res.Candidates[0].Cost)
	require.Equal(t, 3, res.Candidates[0].Count)
	require.Equal(t, 1.0, testutil.ToFloat64(mc.Runs.WithLabelValues("fake", metrics.OutcomeInvalid)))
}

func TestOptimize_Failures(t *testing.T) {
	t.Run("missing distance", func(t *testing.T) {
		opt := route.New(exact.Sampler{}, anneal.Config{}, route.WithLogger(quietLogger()))
		_, err := opt.Optimize(context.Background(), []string{"Austria", "Belgium", "Estonia"}, literalTable(t))
		var mde *distance.MissingDistanceError
		require.ErrorAs(t, err, &mde)
	})

	t.Run("too few cities", func(t *testing.T) {
		opt := route.New(exact.Sampler{}, anneal.Config{}, route.WithLogger(quietLogger()))
		_, err := opt.Optimize(context.Background(), cities[:2], literalTable(t))
		var de *qubo.DegenerateMatrixError
		require.ErrorAs(t, err, &de)
	})

	t.Run("sampler unavailable", func(t *testing.T) {
		boom := errors.New("connection refused")
		mc := metrics.NewCollector(metrics.DefaultNamespace)
		opt := route.New(&fakeSampler{err: boom}, anneal.Config{},
			route.WithLogger(quietLogger()), route.WithMetrics(mc))
		res, err := opt.Optimize(context.Background(), cities, literalTable(t))
		require.Nil(t, res)
		var sue *anneal.SolveUnavailableError
		require.ErrorAs(t, err, &sue)
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1.0, testutil.ToFloat64(mc.Runs.WithLabelValues("fake", metrics.OutcomeUnavailable)))
	})
}

func TestOptimize_WarnsAboveSolverLimit(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	opt := route.New(&fakeSampler{err: errors.New("offline")}, anneal.Config{Solver: "DW_2000Q_6"},
		route.WithLogger(logger))

	tbl := distance.NewTable()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for i := range names {
		for j := range names {
			if i != j {
				require.NoError(t, tbl.Set(names[i], names[j], float64(i+j)))
			}
		}
	}
	_, err := opt.Optimize(context.Background(), names, tbl)
	require.Error(t, err)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["limit"] == 9 {
			warned = true
		}
	}
	require.True(t, warned)
}

func TestOptimize_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	opt := route.New(exact.Sampler{}, anneal.Config{NumReads: 2},
		route.WithLogger(quietLogger()), route.WithTracerProvider(tp))

	_, err := opt.Optimize(context.Background(), cities, literalTable(t))
	require.NoError(t, err)

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	require.ElementsMatch(t, []string{"qubo.Encode", "anneal.Solve", "route.Optimize"}, names)
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	opt := route.New(exact.Sampler{}, anneal.Config{NumReads: 4},
		route.WithLogger(quietLogger()), route.WithCompareWorkers(2))
	res, err := opt.Optimize(ctx, cities, literalTable(t))
	require.NoError(t, err)

	for _, algo := range []tsp.Algorithm{tsp.AlgoBruteForce, tsp.AlgoHeldKarp} {
		t.Run(algo.String(), func(t *testing.T) {
			cmp, err := opt.Compare(ctx, res, algo)
			require.NoError(t, err)
			require.Equal(t, algo, cmp.Algorithm)
			require.Equal(t, 13.0, cmp.Baseline.Cost)
			require.Equal(t, 0.0, cmp.Gap)
			require.True(t, cmp.Optimal)
			require.Equal(t, "Austria", cmp.Route[0])
		})
	}
}

func TestCompare_NearlySymmetric(t *testing.T) {
	ctx := context.Background()
	tbl := literalTable(t)
	require.NoError(t, tbl.Set("Belgium", "Austria", 1+1e-10))

	opt := route.New(exact.Sampler{}, anneal.Config{NumReads: 4}, route.WithLogger(quietLogger()))
	res, err := opt.Optimize(ctx, cities, tbl)
	require.NoError(t, err)
	require.InDelta(t, 13.0, res.Cost, 1e-9)

	cmp, err := opt.Compare(ctx, res, tsp.AlgoBruteForce)
	require.NoError(t, err)
	require.InDelta(t, 13.0, cmp.Baseline.Cost, 1e-9)
	require.True(t, cmp.Optimal)
}

func TestCompare_Limits(t *testing.T) {
	ctx := context.Background()
	opt := route.New(exact.Sampler{}, anneal.Config{NumReads: 1},
		route.WithLogger(quietLogger()), route.WithCompareLimit(3))
	res, err := opt.Optimize(ctx, cities, literalTable(t))
	require.NoError(t, err)

	_, err = opt.Compare(ctx, res, tsp.AlgoBruteForce)
	require.ErrorIs(t, err, tsp.ErrTooManyCities)

	_, err = opt.Compare(ctx, nil, tsp.AlgoBruteForce)
	require.ErrorIs(t, err, route.ErrNoMatrix)
}

func TestCompare_InvalidRun(t *testing.T) {
	f := &fakeSampler{set: anneal.SampleSet{Solver: "fake", Samples: []anneal.Sample{
		{Bits: make([]uint8, 9), Energy: 0, Occurrences: 1},
	}}}
	opt := route.New(f, anneal.Config{}, route.WithLogger(quietLogger()))
	res, err := opt.Optimize(context.Background(), cities[:3], literalTable(t))
	require.Error(t, err)
	require.NotNil(t, res)

	cmp, err := opt.Compare(context.Background(), res, tsp.AlgoBruteForce)
	require.NoError(t, err)
	require.Equal(t, 19.0, cmp.Baseline.Cost)
	require.True(t, math.IsInf(cmp.Gap, 1))
	require.False(t, cmp.Optimal)
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"Croatia", "Austria", ""}, route.Names(cities, []int{2, 0, 7}))
	require.Nil(t, route.Names(cities, nil))
}
