package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/chrisdamba/sandwichsim/internal/models"
)

// Renderer consumes actions as the timeline is replayed.
type Renderer interface {
	Render(action models.Action) error
	// EndOfLog is called once after the terminal break.
	EndOfLog() error
}

// FormatAction returns the console line for an action, without newline.
func FormatAction(a models.Action) string {
	line := fmt.Sprintf(" %d. %s %s", a.Sequence, models.FormatClock(a.Time), a.Kind.Label())
	if a.HasOrder() {
		line += fmt.Sprintf(" %d", a.OrderNumber)
	}
	return line
}

type ConsoleRenderer struct {
	w io.Writer
}

func NewConsoleRenderer(w io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{w: w}
}

func (c *ConsoleRenderer) Render(a models.Action) error {
	_, err := fmt.Fprintln(c.w, FormatAction(a))
	return err
}

func (c *ConsoleRenderer) EndOfLog() error {
	_, err := fmt.Fprintln(c.w)
	return err
}

// Collector keeps every replay it sees; the last one is the current timeline.
type Collector struct {
	Replays [][]models.Action
	current []models.Action
}

func (c *Collector) Render(a models.Action) error {
	c.current = append(c.current, a)
	return nil
}

func (c *Collector) EndOfLog() error {
	c.Replays = append(c.Replays, c.current)
	c.current = nil
	return nil
}

func (c *Collector) Last() []models.Action {
	if len(c.Replays) == 0 {
		return nil
	}
	return c.Replays[len(c.Replays)-1]
}

type multi []Renderer

// Multi fans every call out to all renderers, returning the joined errors.
func Multi(renderers ...Renderer) Renderer {
	return multi(renderers)
}

func (m multi) Render(a models.Action) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) EndOfLog() error {
	var errs []error
	for _, r := range m {
		if err := r.EndOfLog(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
