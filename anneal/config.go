package anneal

import "time"

// Defaults for Config.
const (
	DefaultNumReads = 100
	DefaultTimeout  = 5 * time.Minute
)

// Config configures Solve. The zero value is usable: DefaultNumReads reads,
// no deadline and the sampler's own solver.
//
// Solver is not read from YAML; the configuration file names the remote
// solver once, under api.solver.
type Config struct {
	Solver        string        `yaml:"-"`
	NumReads      int           `yaml:"num_reads" validate:"gte=0,lte=10000"`
	AnnealingTime time.Duration `yaml:"annealing_time" validate:"gte=0"`
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
	Seed          int64         `yaml:"seed"`
	Label         string        `yaml:"label"`
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{NumReads: DefaultNumReads, Timeout: DefaultTimeout}
}

// params resolves the per-call parameters for solver.
func (c Config) params(solver string) Params {
	reads := c.NumReads
	if reads <= 0 {
		reads = DefaultNumReads
	}

	return Params{
		Solver:        solver,
		NumReads:      reads,
		AnnealingTime: c.AnnealingTime,
		Seed:          c.Seed,
		Label:         c.Label,
	}
}
