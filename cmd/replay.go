package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/sandwichsim/internal/timeline"
	"github.com/spf13/cobra"
)

func newReplayCmd(a *app) *cobra.Command {
	var (
		arrivals []string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Print the timeline for a fixed list of arrivals",
		Long: `Arrivals are offsets from the opening time (e.g. 0s, 10s, 5m) or RFC3339
timestamps, replayed in the order given. With --all every intermediate
timeline is printed, as if the orders had been placed one by one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			start := a.cfg.StartTime
			if start.IsZero() {
				start = newClock().Now()
			}
			start = start.Truncate(time.Second)

			times, err := parseArrivals(start, arrivals)
			if err != nil {
				return err
			}

			renderer, closeRenderer, err := a.newRenderer(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeRenderer(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			opts := []timeline.Option{timeline.WithStartTime(start)}
			if all {
				opts = append(opts, timeline.WithRenderer(renderer))
			}
			scheduler, err := timeline.NewScheduler(newClock(), a.cfg.MakeDuration, a.cfg.ServeDuration, opts...)
			if err != nil {
				return err
			}
			for _, t := range times {
				if _, err := scheduler.RecordArrivalAt(t); err != nil {
					return err
				}
			}
			if all && len(times) > 0 {
				return nil
			}

			if err := timeline.Replay(start, scheduler.Arrivals(), a.cfg.MakeDuration, a.cfg.ServeDuration, renderer.Render); err != nil {
				return err
			}
			return renderer.EndOfLog()
		},
	}

	cmd.Flags().StringSliceVar(&arrivals, "arrival", nil, "Arrival offset or RFC3339 time; repeat or comma separate")
	cmd.Flags().BoolVar(&all, "all", false, "Print the timeline after every arrival")
	return cmd
}

func parseArrivals(start time.Time, values []string) ([]time.Time, error) {
	times := make([]time.Time, 0, len(values))
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if d, err := time.ParseDuration(raw); err == nil {
			times = append(times, start.Add(d))
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid arrival %q: want a duration or RFC3339 time", raw)
		}
		times = append(times, t)
	}
	return times, nil
}
