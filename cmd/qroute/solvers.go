package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/qroute/anneal"
	"github.com/katalvlaran/qroute/anneal/sapi"
)

func newSolversCmd(o *rootOptions) *cobra.Command {
	f := sapi.DefaultFilter
	var all bool

	cmd := &cobra.Command{
		Use:   "solvers",
		Short: "List the solvers available to the configured API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.sapiClient()
			if err != nil {
				return err
			}
			if all {
				f = sapi.Filter{}
			}
			solvers, err := client.Solvers(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(solvers) == 0 {
				return fmt.Errorf("no solver matches (online=%t qpu=%t hybrid=%t)", f.Online, f.QPU, f.Hybrid)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tSTATUS\tQUBITS\tMAX CITIES")
			for _, s := range solvers {
				limit := "-"
				if n := anneal.MaxCities(s.ID); n > 0 {
					limit = fmt.Sprint(n)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.Category(), s.Status, s.Properties.NumQubits, limit)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&f.Hybrid, "hybrid", f.Hybrid, "include hybrid solvers")
	cmd.Flags().BoolVar(&all, "all", false, "list every solver, offline ones included")

	return cmd
}

// sapiClient builds a SAPI client from the loaded configuration.
func (o *rootOptions) sapiClient() (*sapi.Client, error) {
	if o.cfg.API.Token == "" {
		return nil, sapi.ErrNoToken
	}

	return sapi.New(o.cfg.API.Endpoint, o.cfg.API.Token,
		sapi.WithSolver(o.cfg.API.Solver),
		sapi.WithPollInterval(o.cfg.API.PollInterval),
		sapi.WithLogger(o.logger),
	)
}
