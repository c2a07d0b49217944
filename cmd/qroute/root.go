package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/qroute/config"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configPath string
	debug      bool

	// overrides apply subcommand flags on top of file and environment.
	overrides []config.Override

	cfg    config.Config
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "qroute",
		Short:        "Quantum route optimizer",
		Long:         `qroute finds a short round trip through a set of countries by sampling a QUBO encoding of the travelling salesman problem.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "path to a YAML configuration file")
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "use debug log level")

	cmd.AddCommand(newSolveCmd(o), newSolversCmd(o), newVersionCmd())

	return cmd
}

// setup loads the configuration and builds the logger. The version command
// needs neither.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := config.Load(o.configPath, o.overrides...)
	if err != nil {
		return err
	}
	if o.debug {
		cfg.Log.Level = logrus.DebugLevel.String()
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.Debugf("log level %s", logger.Level)

	o.cfg = cfg
	o.logger = logger

	return nil
}
