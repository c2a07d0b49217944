// Package config loads the qroute configuration.
//
// Sources, lowest to highest priority:
//  1. Defaults (Default).
//  2. A YAML file, when a path is given.
//  3. Environment variables: DWAVE_API_TOKEN, DWAVE_API_ENDPOINT,
//     DWAVE_API_SOLVER, QROUTE_SAMPLER, QROUTE_NUM_READS and QROUTE_LOG_LEVEL.
//  4. Overrides passed to Load (command-line flags).
//
// The merged result is validated before it is returned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/anneal/sapi"
)

// Sampler backends selectable in Config.Sampler.
const (
	SamplerSAPI      = "sapi"
	SamplerSimulated = "simulated"
	SamplerExact     = "exact"
)

// Environment variables read by Load.
const (
	EnvToken    = "DWAVE_API_TOKEN"
	EnvEndpoint = "DWAVE_API_ENDPOINT"
	EnvSolver   = "DWAVE_API_SOLVER"
	EnvSampler  = "QROUTE_SAMPLER"
	EnvNumReads = "QROUTE_NUM_READS"
	EnvLogLevel = "QROUTE_LOG_LEVEL"
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrMissingToken is returned when the sapi sampler has no API token.
	ErrMissingToken = errors.New("config: sapi sampler needs an API token")
)

// Config is the complete configuration.
type Config struct {
	Sampler string        `yaml:"sampler" validate:"oneof=sapi simulated exact"`
	API     APIConfig     `yaml:"api"`
	Anneal  anneal.Config `yaml:"anneal"`
	Compare CompareConfig `yaml:"compare"`
	Data    DataConfig    `yaml:"data"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig is the SAPI connection.
type APIConfig struct {
	Endpoint     string        `yaml:"endpoint" validate:"required,url"`
	Token        string        `yaml:"token"`
	Solver       string        `yaml:"solver"` // sapi sampler only; local samplers report their own name
	PollInterval time.Duration `yaml:"poll_interval" validate:"gte=0"`
}

// CompareConfig controls the classical baseline.
type CompareConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Algorithm string `yaml:"algorithm" validate:"oneof=brute-force held-karp"`
	MaxCities int    `yaml:"max_cities" validate:"gte=3,lte=16"`
	Workers   int    `yaml:"workers" validate:"gte=0,lte=256"`
}

// DataConfig points at the CSV datasets.
type DataConfig struct {
	Distances       string `yaml:"distances"`
	Countries       string `yaml:"countries"`
	AssumeSymmetric bool   `yaml:"assume_symmetric"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=panic fatal error warn warning info debug trace"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sampler: SamplerSAPI,
		API: APIConfig{
			Endpoint:     sapi.DefaultEndpoint,
			PollInterval: sapi.DefaultPollInterval,
		},
		Anneal: anneal.DefaultConfig(),
		Compare: CompareConfig{
			Algorithm: "brute-force",
			MaxCities: 10,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Override adjusts a loaded configuration before validation, typically
// from command-line flags.
type Override func(*Config)

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), the environment and then overrides, and validates it.
func Load(path string, overrides ...Override) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		defer f.Close()
		if err = decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Parse reads a YAML document over the defaults and validates the result.
// The environment is not consulted.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// decode overlays a YAML document onto cfg; unknown keys are rejected.
func decode(r io.Reader, cfg *Config) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	return dec.Decode(cfg)
}

// applyEnv overlays environment variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvToken); ok && v != "" {
		cfg.API.Token = v
	}
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		cfg.API.Endpoint = v
	}
	if v, ok := lookup(EnvSolver); ok && v != "" {
		cfg.API.Solver = v
	}
	if v, ok := lookup(EnvSampler); ok && v != "" {
		cfg.Sampler = strings.ToLower(v)
	}
	if v, ok := lookup(EnvNumReads); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvNumReads, v)
		}
		cfg.Anneal.NumReads = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}

	return nil
}

var validate = validator.New()

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Sampler == SamplerSAPI && strings.TrimSpace(c.API.Token) == "" {
		return ErrMissingToken
	}

	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fmt.Sprint(fe.Value()))
	case "gte", "lte":
		return fmt.Sprintf("%s must be %s %s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
