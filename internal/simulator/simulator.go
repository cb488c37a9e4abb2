// Package simulator plays a synthetic shop day: customers place orders at
// random gaps and the scheduler re-renders the timeline after each one.
package simulator

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/chrisdamba/sandwichsim/internal/clock"
	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/chrisdamba/sandwichsim/internal/render"
	"github.com/chrisdamba/sandwichsim/internal/timeline"
	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
)

type Simulator struct {
	Config      *models.Config
	Clock       *clock.FakeClock
	EventQueue  *models.EventQueue
	Scheduler   *timeline.Scheduler
	CurrentTime time.Time

	fake     faker.Faker
	progress io.Writer
}

type Result struct {
	Customers []string
	Arrivals  []time.Time
	Actions   []models.Action
	Summary   models.Summary
}

// NewSimulator prepares a day starting at config.StartTime, or now when it is
// unset. Progress goes to progress; pass nil to hide it.
func NewSimulator(config *models.Config, renderer render.Renderer, progress io.Writer) (*Simulator, error) {
	start := config.StartTime
	if start.IsZero() {
		start = clock.SystemClock{}.Now()
	}
	clk := clock.NewFakeClock(start)

	opts := []timeline.Option{}
	if renderer != nil {
		opts = append(opts, timeline.WithRenderer(renderer))
	}
	scheduler, err := timeline.NewScheduler(clk, config.MakeDuration, config.ServeDuration, opts...)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = io.Discard
	}
	return &Simulator{
		Config:      config,
		Clock:       clk,
		EventQueue:  models.NewEventQueue(),
		Scheduler:   scheduler,
		CurrentTime: clk.Now(),
		fake:        faker.NewWithSeed(rand.NewSource(int64(config.Seed))),
		progress:    progress,
	}, nil
}

// initializeOrders schedules Config.Orders arrivals, each 0..MaxGap (whole
// seconds) after the previous one, then closes the shop at the last arrival.
func (s *Simulator) initializeOrders() error {
	if s.Config.Orders < 0 {
		return fmt.Errorf("orders must not be negative: %d", s.Config.Orders)
	}
	maxGap := int(s.Config.MaxGap / time.Second)
	if maxGap < 0 {
		return fmt.Errorf("max_gap must not be negative: %s", s.Config.MaxGap)
	}

	at := s.CurrentTime
	for i := 0; i < s.Config.Orders; i++ {
		if i > 0 {
			at = at.Add(time.Duration(s.fake.IntBetween(0, maxGap)) * time.Second)
		}
		s.EventQueue.Enqueue(&models.Event{
			Time: at,
			Type: models.EventPlaceOrder,
			Data: models.OrderPlaced{Customer: s.fake.Person().FirstName()},
		})
	}
	s.EventQueue.Enqueue(&models.Event{Time: at, Type: models.EventCloseShop})
	return nil
}

func (s *Simulator) Run() (*Result, error) {
	if err := s.initializeOrders(); err != nil {
		return nil, err
	}
	log.Printf("Simulation of %d orders starts at %s", s.Config.Orders, s.CurrentTime.Format(time.RFC3339))

	var bar *progressbar.ProgressBar
	if s.Config.Orders > 0 {
		bar = progressbar.NewOptions(s.Config.Orders,
			progressbar.OptionSetWriter(s.progress),
			progressbar.OptionSetDescription("orders"),
			progressbar.OptionShowCount(),
		)
	}

	result := &Result{}
	for !s.EventQueue.IsEmpty() {
		event := s.EventQueue.Dequeue()
		s.Clock.Set(event.Time)
		s.CurrentTime = event.Time

		switch event.Type {
		case models.EventPlaceOrder:
			placed := event.Data.(models.OrderPlaced)
			actions, err := s.Scheduler.RecordArrival()
			if err != nil {
				return nil, fmt.Errorf("order %d: %w", len(result.Customers)+1, err)
			}
			result.Customers = append(result.Customers, placed.Customer)
			result.Actions = actions
			if bar != nil {
				_ = bar.Add(1)
			}
		case models.EventCloseShop:
			if len(result.Customers) == 0 {
				actions, err := s.Scheduler.Rebuild()
				if err != nil {
					return nil, err
				}
				result.Actions = actions
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	result.Arrivals = s.Scheduler.Arrivals()
	result.Summary = models.Summarize(result.Actions)
	log.Printf("Simulation completed: %d orders, %d breaks, worker free at %s",
		result.Summary.Orders, result.Summary.Breaks, models.FormatClock(result.Summary.End))
	return result, nil
}
