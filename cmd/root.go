package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chrisdamba/sandwichsim/internal/clock"
	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/chrisdamba/sandwichsim/internal/output"
	"github.com/chrisdamba/sandwichsim/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const Version = "1.1"

// newClock is replaced in tests.
var newClock = func() clock.Clock { return clock.SystemClock{} }

type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *models.Config
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"make-duration":      "make_duration",
	"serve-duration":     "serve_duration",
	"start-time":         "start_time",
	"output-format":      "output_format",
	"output-path":        "output_path",
	"output-folder":      "output_folder",
	"output-destination": "output_destination",
	"kafka-enabled":      "kafka_enabled",
	"kafka-broker-list":  "kafka_broker_list",
	"kafka-topic":        "kafka_topic",
	"postgres-enabled":   "postgres_enabled",
	"seed":               "seed",
	"orders":             "orders",
	"max-gap":            "max_gap",
}

func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "sandwichsim",
		Short: "Sequences a single-worker sandwich shop",
		Long: `sandwichsim replays the day of a one-person sandwich shop. Every order is
made and served in the order it arrived, and the worker takes a break
whenever nothing is waiting. The full timeline is printed again after
every new order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := models.LoadConfigFrom(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", used)
			}
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./sandwichsim.yaml)")
	flags := rootCmd.PersistentFlags()
	flags.Duration("make-duration", models.DefaultMakeDuration, "Time to make one sandwich")
	flags.Duration("serve-duration", models.DefaultServeDuration, "Time to serve one sandwich")
	flags.String("start-time", "", "Shop opening time (RFC3339), defaults to now")
	flags.String("output-format", "console", "Event output format: console, json, csv or parquet")
	flags.String("output-path", "", "Base directory for json, csv and parquet output")
	flags.String("output-folder", "sandwichsim", "Folder under the output path")
	flags.String("output-destination", "local", "Where parquet files go: local or s3")
	flags.Bool("kafka-enabled", false, "Publish actions to Kafka")
	flags.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	flags.String("kafka-topic", models.TopicSandwichActions, "Kafka topic for actions")
	flags.Bool("postgres-enabled", false, "Export actions to Postgres")

	rootCmd.AddCommand(newShopCmd(a), newReplayCmd(a), newSimulateCmd(a), newVersionCmd())
	return rootCmd
}

// bindFlags only binds flags the user set, so config file values win over
// flag defaults.
func (a *app) bindFlags(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed || err != nil {
			return
		}
		err = a.v.BindPFlag(key, f)
	})
	return err
}

// newRenderer prints the console log to w and, when sinks are configured,
// also writes every action to them. The returned close func flushes sinks.
func (a *app) newRenderer(ctx context.Context, w io.Writer) (render.Renderer, func() error, error) {
	console := render.NewConsoleRenderer(w)
	destinations, err := output.NewOutputDestinations(ctx, a.cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	if len(destinations) == 0 {
		return console, func() error { return nil }, nil
	}
	sink := output.NewSinkRenderer(models.TopicSandwichActions, destinations...)
	return render.Multi(console, sink), sink.Close, nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
