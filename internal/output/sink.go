package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/lucsky/cuid"
)

// SinkRenderer turns replayed actions into ActionEvents and writes them to
// every destination. It satisfies render.Renderer.
type SinkRenderer struct {
	runID        string
	topic        string
	replay       int
	destinations []OutputDestination
}

func NewSinkRenderer(topic string, destinations ...OutputDestination) *SinkRenderer {
	return &SinkRenderer{
		runID:        cuid.New(),
		topic:        topic,
		replay:       1,
		destinations: destinations,
	}
}

func (s *SinkRenderer) RunID() string {
	return s.runID
}

func (s *SinkRenderer) Render(a models.Action) error {
	msg, err := json.Marshal(models.NewActionEvent(s.runID, s.replay, a))
	if err != nil {
		return err
	}

	var errs []error
	for _, d := range s.destinations {
		if err := d.WriteMessage(s.topic, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *SinkRenderer) EndOfLog() error {
	s.replay++
	return nil
}

func (s *SinkRenderer) Close() error {
	var errs []error
	for _, d := range s.destinations {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewOutputDestinations builds every destination the config enables. The
// file format destination is always present; console is the fallback.
func NewOutputDestinations(ctx context.Context, config *models.Config, console io.Writer) ([]OutputDestination, error) {
	var destinations []OutputDestination
	closeAll := func() {
		for _, d := range destinations {
			_ = d.Close()
		}
	}

	switch config.OutputFormat {
	case "parquet":
		out, err := NewParquetOutput(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create Parquet output: %w", err)
		}
		destinations = append(destinations, out)
	case "json":
		destinations = append(destinations, NewJSONOutput(config.OutputPath, config.OutputFolder))
	case "csv":
		destinations = append(destinations, NewCSVOutput(config.OutputPath, config.OutputFolder))
	case "", "console":
		if console != nil {
			destinations = append(destinations, NewConsoleOutput(console))
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
	}

	if config.KafkaEnabled {
		out, err := NewKafkaOutput(config)
		if err != nil {
			closeAll()
			return nil, err
		}
		destinations = append(destinations, out)
	}

	if config.PostgresEnabled {
		out, err := NewPostgresOutput(ctx, &config.Database)
		if err != nil {
			closeAll()
			return nil, err
		}
		destinations = append(destinations, out)
	}

	log.Printf("Writing %s events to %d destination(s)", models.TopicSandwichActions, len(destinations))
	return destinations, nil
}
