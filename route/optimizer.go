package route

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/decode"
	"github.com/katalvlaran/qroute/distance"
	"github.com/katalvlaran/qroute/matrix"
	"github.com/katalvlaran/qroute/metrics"
	"github.com/katalvlaran/qroute/qubo"
	"github.com/katalvlaran/qroute/tsp"
)

// tracerName identifies spans emitted by this package.
const tracerName = "github.com/katalvlaran/qroute/route"

// DefaultCompareLimit is the largest instance Compare accepts by default.
const DefaultCompareLimit = 10

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger (logrus' standard logger by default).
func WithLogger(l logrus.FieldLogger) Option { return func(o *Optimizer) { o.log = l } }

// WithMetrics records run metrics on c.
func WithMetrics(c *metrics.Collector) Option { return func(o *Optimizer) { o.metrics = c } }

// WithTracerProvider replaces the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Optimizer) { o.tracer = tp.Tracer(tracerName) }
}

// WithBuildOptions passes options to distance.BuildMatrix.
func WithBuildOptions(opts ...distance.Option) Option {
	return func(o *Optimizer) { o.buildOpts = append(o.buildOpts, opts...) }
}

// WithEncodeOptions passes options to qubo.Encode.
func WithEncodeOptions(opts ...qubo.Option) Option {
	return func(o *Optimizer) { o.encodeOpts = append(o.encodeOpts, opts...) }
}

// WithCompareLimit sets the largest instance Compare will solve.
func WithCompareLimit(n int) Option { return func(o *Optimizer) { o.compareLimit = n } }

// WithCompareWorkers shards brute-force comparisons over k goroutines.
func WithCompareWorkers(k int) Option { return func(o *Optimizer) { o.workers = k } }

// Optimizer runs the pipeline against one sampler. It is safe for
// concurrent use if the sampler is.
type Optimizer struct {
	sampler      anneal.Sampler
	cfg          anneal.Config
	log          logrus.FieldLogger
	metrics      *metrics.Collector
	tracer       trace.Tracer
	buildOpts    []distance.Option
	encodeOpts   []qubo.Option
	compareLimit int
	workers      int
}

// New returns an Optimizer sampling with sampler under cfg.
func New(sampler anneal.Sampler, cfg anneal.Config, opts ...Option) *Optimizer {
	o := &Optimizer{
		sampler:      sampler,
		cfg:          cfg,
		compareLimit: DefaultCompareLimit,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	return o
}

// Candidate is one distinct valid sample, scored.
type Candidate struct {
	Tour   []int
	Route  []string
	Cost   float64
	Energy float64
	Count  int
}

// Result is the outcome of one Optimize call.
type Result struct {
	RunID     uuid.UUID
	Locations []string
	Matrix    *matrix.Dense
	Penalty   float64

	// Tour and Route are the decoded best sample; Route names Tour's cities.
	Tour  []int
	Route []string
	Cost  float64

	// Elapsed is the wall-clock duration of the solve stage.
	Elapsed time.Duration

	SampleSet    anneal.SampleSet
	Distribution decode.Distribution

	// Candidates lists every distinct valid sample by ascending cost.
	Candidates []Candidate
}

// Optimize runs the pipeline for locations.
//
// When the best sample encodes no tour, Optimize returns the partial Result
// (sample set, distribution, candidates) together with the
// *decode.InvalidSampleError. Every other failure returns a nil Result.
func (o *Optimizer) Optimize(ctx context.Context, locations []string, table *distance.Table) (res *Result, err error) {
	runID := uuid.New()
	log := o.log.WithField("run_id", runID.String())
	ctx, span := o.tracer.Start(ctx, "route.Optimize", trace.WithAttributes(
		attribute.String("qroute.run_id", runID.String()),
		attribute.Int("qroute.cities", len(locations)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	solver := o.cfg.Solver
	if solver == "" && o.sampler != nil {
		solver = o.sampler.Name()
	}
	defer func() { o.metrics.RecordRun(solver, outcome(err)) }()

	// Build.
	start := time.Now()
	dist, err := distance.BuildMatrix(locations, table, o.buildOpts...)
	o.metrics.ObserveStage(metrics.StageBuild, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("route: build matrix: %w", err)
	}
	n := dist.Rows()
	if limit := anneal.MaxCities(solver); limit > 0 && n > limit {
		log.WithFields(logrus.Fields{"cities": n, "limit": limit, "solver": solver}).
			Warn("selection exceeds the advisory city limit of the solver")
	}

	// Encode.
	start = time.Now()
	q, err := o.encode(ctx, dist)
	o.metrics.ObserveStage(metrics.StageEncode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("route: encode: %w", err)
	}
	o.metrics.RecordProblem(n, q.Vars())
	log.WithFields(logrus.Fields{"cities": n, "variables": q.Vars(), "terms": q.Len(), "penalty": q.Penalty()}).
		Debug("qubo encoded")

	// Solve.
	set, elapsed, err := o.solve(ctx, q, n)
	o.metrics.ObserveStage(metrics.StageSolve, elapsed)
	if err != nil {
		log.WithError(err).Error("solve failed")
		return nil, fmt.Errorf("route: %w", err)
	}
	log.WithFields(logrus.Fields{"solver": set.Solver, "samples": set.Len(), "reads": set.Reads(), "elapsed": elapsed}).
		Info("sample set received")

	// Decode and score.
	start = time.Now()
	res = &Result{
		RunID:     runID,
		Locations: append([]string(nil), locations...),
		Matrix:    dist,
		Penalty:   q.Penalty(),
		Elapsed:   elapsed,
		SampleSet: set,
	}
	tour, distribution, err := decode.Best(set)
	var invalid *decode.InvalidSampleError
	if err != nil && !errors.As(err, &invalid) {
		return nil, fmt.Errorf("route: decode: %w", err)
	}
	res.Distribution = distribution
	o.metrics.ObserveStage(metrics.StageDecode, time.Since(start))
	o.metrics.RecordSamples(distribution.Reads, distribution.ValidFraction())
	if res.Candidates, err = o.candidates(res); err != nil {
		return nil, err
	}
	if invalid != nil {
		log.WithError(invalid).WithField("valid_fraction", distribution.ValidFraction()).
			Warn("best sample encodes no tour")
		return res, invalid
	}

	res.Tour = tour
	res.Route = Names(locations, tour)
	if res.Cost, err = tsp.TourCost(dist, tour); err != nil {
		return nil, fmt.Errorf("route: cost: %w", err)
	}
	o.metrics.RecordCost(res.Cost)
	span.SetAttributes(attribute.Float64("qroute.cost", res.Cost))
	log.WithFields(logrus.Fields{"route": res.Route, "cost": res.Cost}).Info("route decoded")

	return res, nil
}

func (o *Optimizer) encode(ctx context.Context, dist matrix.Matrix) (*qubo.QUBO, error) {
	_, span := o.tracer.Start(ctx, "qubo.Encode")
	defer span.End()
	q, err := qubo.Encode(dist, o.encodeOpts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("qubo.variables", q.Vars()), attribute.Int("qubo.terms", q.Len()))

	return q, nil
}

func (o *Optimizer) solve(ctx context.Context, q *qubo.QUBO, n int) (anneal.SampleSet, time.Duration, error) {
	ctx, span := o.tracer.Start(ctx, "anneal.Solve")
	defer span.End()
	set, elapsed, err := anneal.Solve(ctx, o.sampler, q, n, o.cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return anneal.SampleSet{}, elapsed, err
	}
	span.SetAttributes(attribute.String("anneal.solver", set.Solver), attribute.Int("anneal.samples", set.Len()))

	return set, elapsed, nil
}

// candidates scores every valid distribution entry.
func (o *Optimizer) candidates(res *Result) ([]Candidate, error) {
	var out []Candidate
	for _, e := range res.Distribution.Valid() {
		cost, err := tsp.TourCost(res.Matrix, e.Tour)
		if err != nil {
			return nil, fmt.Errorf("route: cost: %w", err)
		}
		out = append(out, Candidate{
			Tour:   e.Tour,
			Route:  Names(res.Locations, e.Tour),
			Cost:   cost,
			Energy: e.Energy,
			Count:  e.Count,
		})
	}
	sortCandidates(out)

	return out, nil
}

// outcome maps a run error to a metrics label.
func outcome(err error) string {
	var (
		ise *decode.InvalidSampleError
		sue *anneal.SolveUnavailableError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &ise):
		return metrics.OutcomeInvalid
	case errors.As(err, &sue):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}
