package cmd

import (
	"fmt"
	"time"

	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/chrisdamba/sandwichsim/internal/simulator"
	"github.com/spf13/cobra"
)

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a synthetic shop day with randomly spaced orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			renderer, closeRenderer, err := a.newRenderer(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeRenderer(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			sim, err := simulator.NewSimulator(a.cfg, renderer, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := sim.Run()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "\n%d orders served, %d breaks, worker free at %s\n",
				result.Summary.Orders, result.Summary.Breaks, models.FormatClock(result.Summary.End))
			return nil
		},
	}

	cmd.Flags().Int("seed", 42, "Random seed for order gaps")
	cmd.Flags().Int("orders", 10, "Number of orders to place")
	cmd.Flags().Duration("max-gap", 5*time.Minute, "Longest wait between two orders")
	return cmd
}
