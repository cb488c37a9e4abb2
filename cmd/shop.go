package cmd

import (
	"bufio"
	"fmt"
	"log"
	"strings"

	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/chrisdamba/sandwichsim/internal/timeline"
	"github.com/spf13/cobra"
)

func newShopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Open the shop and take orders from stdin",
		Long: `Each line read from stdin places one order at the current time and
prints the whole day again. Enter q, or close stdin, to close the shop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out := cmd.OutOrStdout()
			renderer, closeRenderer, err := a.newRenderer(cmd.Context(), out)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeRenderer(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			opts := []timeline.Option{
				timeline.WithRenderer(renderer),
				timeline.WithWarningHandler(func(w *models.ClockRegressionWarning) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
				}),
			}
			if !a.cfg.StartTime.IsZero() {
				opts = append(opts, timeline.WithStartTime(a.cfg.StartTime))
			}
			scheduler, err := timeline.NewScheduler(newClock(), a.cfg.MakeDuration, a.cfg.ServeDuration, opts...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Press Enter to place an order, q to close the shop.")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
					break
				}
				if _, err := scheduler.RecordArrival(); err != nil {
					return err
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read orders: %w", err)
			}

			log.Printf("Shop closed after %d orders", len(scheduler.Arrivals()))
			return nil
		},
	}
}
