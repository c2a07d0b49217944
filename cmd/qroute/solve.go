package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/anneal/exact"
	"github.com/katalvlaran/qroute/anneal/sapi"
	"github.com/katalvlaran/qroute/anneal/simulated"
	"github.com/katalvlaran/qroute/config"
	"github.com/katalvlaran/qroute/dataset"
	"github.com/katalvlaran/qroute/decode"
	"github.com/katalvlaran/qroute/distance"
	"github.com/katalvlaran/qroute/metrics"
	"github.com/katalvlaran/qroute/qubo"
	"github.com/katalvlaran/qroute/route"
	"github.com/katalvlaran/qroute/tsp"
)

// maxCandidates bounds the candidate table printed after a run.
const maxCandidates = 10

type solveOptions struct {
	sampler         string
	solver          string
	reads           int
	seed            int64
	distances       string
	countries       string
	assumeSymmetric bool
	compare         bool
	algorithm       string
	metricsOut      string
}

func newSolveCmd(root *rootOptions) *cobra.Command {
	o := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve COUNTRY COUNTRY COUNTRY [COUNTRY...]",
		Short: "Compute a round trip through the given countries",
		Long: `Solve encodes the round trip as a QUBO, samples it and prints the best route.

Countries are given by display name or code, as listed in the countries
dataset; each may appear once. At least 3 are required.

  $ qroute solve --sampler exact Austria Belgium Croatia Denmark`,
		Args: cobra.MinimumNArgs(qubo.MinCities),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.sampler, "sampler", "", "sampler backend: sapi, simulated or exact")
	flags.StringVar(&o.solver, "solver", "", "SAPI solver id")
	flags.IntVar(&o.reads, "reads", 0, "number of anneal reads")
	flags.Int64Var(&o.seed, "seed", 0, "seed for the simulated sampler")
	flags.StringVar(&o.distances, "distances", "", "path to the from,to,distance CSV")
	flags.StringVar(&o.countries, "countries", "", "path to the name,code CSV")
	flags.BoolVar(&o.assumeSymmetric, "assume-symmetric", false, "mirror distances given in one direction only")
	flags.BoolVar(&o.compare, "compare", false, "also solve classically and report the gap")
	flags.StringVar(&o.algorithm, "algorithm", "", "classical baseline: brute-force or held-karp")
	flags.StringVar(&o.metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile after the run")

	root.overrides = append(root.overrides, func(c *config.Config) { o.apply(flags, c) })

	return cmd
}

// apply copies the flags the user set onto c.
func (o *solveOptions) apply(flags *pflag.FlagSet, c *config.Config) {
	if flags.Changed("sampler") {
		c.Sampler = strings.ToLower(o.sampler)
	}
	if flags.Changed("solver") {
		c.API.Solver = o.solver
	}
	if flags.Changed("reads") {
		c.Anneal.NumReads = o.reads
	}
	if flags.Changed("seed") {
		c.Anneal.Seed = o.seed
	}
	if flags.Changed("distances") {
		c.Data.Distances = o.distances
	}
	if flags.Changed("countries") {
		c.Data.Countries = o.countries
	}
	if flags.Changed("assume-symmetric") {
		c.Data.AssumeSymmetric = o.assumeSymmetric
	}
	if flags.Changed("compare") {
		c.Compare.Enabled = o.compare
	}
	if flags.Changed("algorithm") {
		c.Compare.Algorithm = o.algorithm
	}
}

func (o *solveOptions) run(cmd *cobra.Command, root *rootOptions, args []string) error {
	ctx := cmd.Context()
	cfg, logger := root.cfg, root.logger

	locations, countries, err := resolveLocations(cfg.Data.Countries, args)
	if err != nil {
		return err
	}
	if cfg.Data.Distances == "" {
		return errors.New("no distance dataset: set data.distances or --distances")
	}
	table, err := dataset.LoadDistances(cfg.Data.Distances)
	if err != nil {
		return err
	}

	sampler, err := newSampler(cmd, root)
	if err != nil {
		return err
	}
	annealCfg := cfg.Anneal
	annealCfg.Solver = sampler.Name()

	collector := metrics.NewCollector(metrics.DefaultNamespace)
	opts := []route.Option{
		route.WithLogger(logger),
		route.WithMetrics(collector),
		route.WithCompareLimit(cfg.Compare.MaxCities),
		route.WithCompareWorkers(cfg.Compare.Workers),
	}
	if cfg.Data.AssumeSymmetric {
		opts = append(opts, route.WithBuildOptions(distance.WithAssumeSymmetric()))
	}
	opt := route.New(sampler, annealCfg, opts...)

	out := cmd.OutOrStdout()
	res, runErr := opt.Optimize(ctx, locations, table)
	var invalid *decode.InvalidSampleError
	switch {
	case runErr == nil:
		printResult(out, res, countries, cfg.Sampler == config.SamplerExact)
	case errors.As(runErr, &invalid) && res != nil:
		fmt.Fprintf(out, "No valid route in the best sample: %v\n", invalid)
		printCandidates(out, res, countries)
	default:
		return runErr
	}

	if cfg.Compare.Enabled {
		algo, err := tsp.ParseAlgorithm(cfg.Compare.Algorithm)
		if err != nil {
			return err
		}
		cmp, err := opt.Compare(ctx, res, algo)
		if err != nil {
			return err
		}
		printComparison(out, cmp, countries)
	}

	if o.metricsOut != "" {
		if err = prometheus.WriteToTextfile(o.metricsOut, collector.Registry()); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.WithField("path", o.metricsOut).Debug("metrics written")
	}

	return runErr
}

// resolveLocations maps the arguments to dataset keys. Without a countries
// dataset the arguments are used verbatim.
func resolveLocations(path string, args []string) ([]string, *dataset.Countries, error) {
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		if seen[a] {
			return nil, nil, fmt.Errorf("%q selected twice: %w", a, distance.ErrInvalidSelection)
		}
		seen[a] = true
	}
	if path == "" {
		return args, nil, nil
	}
	countries, err := dataset.LoadCountries(path)
	if err != nil {
		return nil, nil, err
	}
	codes, err := countries.Codes(args)
	if err != nil {
		return nil, nil, err
	}

	return codes, countries, nil
}

// newSampler builds the configured sampler. For SAPI without a configured
// solver, the first online QPU is used.
func newSampler(cmd *cobra.Command, root *rootOptions) (anneal.Sampler, error) {
	cfg := root.cfg
	switch cfg.Sampler {
	case config.SamplerExact:
		return exact.Sampler{}, nil
	case config.SamplerSimulated:
		return simulated.New(), nil
	case config.SamplerSAPI:
		client, err := root.sapiClient()
		if err != nil {
			return nil, err
		}
		if client.Name() != "" {
			return client, nil
		}
		solvers, err := client.Solvers(cmd.Context(), sapi.DefaultFilter)
		if err != nil {
			return nil, err
		}
		if len(solvers) == 0 {
			return nil, fmt.Errorf("no online QPU solver: %w", sapi.ErrSolverNotFound)
		}
		root.logger.WithFields(logrus.Fields{"solver": solvers[0].ID, "available": len(solvers)}).
			Info("no solver configured, using the first online QPU")
		root.cfg.API.Solver = solvers[0].ID

		return root.sapiClient()
	default:
		return nil, fmt.Errorf("%w: unknown sampler %q", config.ErrInvalid, cfg.Sampler)
	}
}

func displayRoute(route []string, countries *dataset.Countries) string {
	names := make([]string, len(route), len(route)+1)
	for i, code := range route {
		names[i] = code
		if countries != nil {
			if n, err := countries.Name(code); err == nil {
				names[i] = n
			}
		}
	}
	if len(names) > 0 {
		names = append(names, names[0])
	}

	return strings.Join(names, " → ")
}

// printResult reports the run. A ranked sample set (the exact sampler) holds
// the lowest-energy states once each, so its valid share is not a frequency
// and is not printed.
func printResult(w io.Writer, res *route.Result, countries *dataset.Countries, ranked bool) {
	fmt.Fprintf(w, "Run %s on %s\n", res.RunID, res.SampleSet.Solver)
	fmt.Fprintf(w, "Route: %s\n", displayRoute(res.Route, countries))
	fmt.Fprintf(w, "Cost:  %g\n", res.Cost)
	if ranked {
		fmt.Fprintf(w, "Solve time: %s, %d lowest-energy states\n", res.Elapsed, res.SampleSet.Len())
	} else {
		fmt.Fprintf(w, "Solve time: %s, %d reads, %.0f%% valid\n",
			res.Elapsed, res.Distribution.Reads, 100*res.Distribution.ValidFraction())
	}
	printCandidates(w, res, countries)
}

func printCandidates(w io.Writer, res *route.Result, countries *dataset.Countries) {
	if len(res.Candidates) == 0 {
		return
	}
	fmt.Fprintln(w, "Candidates:")
	for i, c := range res.Candidates {
		if i == maxCandidates {
			fmt.Fprintf(w, "  ... %d more\n", len(res.Candidates)-maxCandidates)
			break
		}
		fmt.Fprintf(w, "  %-8g x%-4d %s\n", c.Cost, c.Count, displayRoute(c.Route, countries))
	}
}

func printComparison(w io.Writer, cmp *route.Comparison, countries *dataset.Countries) {
	fmt.Fprintf(w, "Classical %s: %s\n", cmp.Algorithm, displayRoute(cmp.Route, countries))
	fmt.Fprintf(w, "Cost:  %g in %s", cmp.Baseline.Cost, cmp.Baseline.Elapsed)
	switch {
	case cmp.Optimal:
		fmt.Fprintln(w, " (annealed route is optimal)")
		return
	case math.IsInf(cmp.Gap, 1):
		fmt.Fprintln(w, " (annealed run found no route)")
		return
	}
	fmt.Fprintf(w, " (annealed route is %.1f%% longer)\n", 100*cmp.Gap)
}
