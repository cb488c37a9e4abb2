package timeline

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chrisdamba/sandwichsim/internal/clock"
	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/chrisdamba/sandwichsim/internal/render"
)

// Scheduler owns the arrival history for one shop session and re-renders
// the whole timeline after every new order.
//
// All methods are serialized by a single mutex, so a Scheduler may be shared
// between goroutines even though replays themselves are synchronous.
type Scheduler struct {
	mu            sync.Mutex
	clock         clock.Clock
	start         time.Time
	makeDuration  time.Duration
	serveDuration time.Duration
	arrivals      []time.Time
	renderer      render.Renderer
	onWarning     func(*models.ClockRegressionWarning)
}

type Option func(*Scheduler)

func WithRenderer(r render.Renderer) Option {
	return func(s *Scheduler) { s.renderer = r }
}

// WithStartTime overrides the opening time, which otherwise is the clock's
// reading when the scheduler is created.
func WithStartTime(t time.Time) Option {
	return func(s *Scheduler) { s.start = t.Truncate(time.Second) }
}

func WithWarningHandler(fn func(*models.ClockRegressionWarning)) Option {
	return func(s *Scheduler) { s.onWarning = fn }
}

func NewScheduler(clk clock.Clock, makeDuration, serveDuration time.Duration, opts ...Option) (*Scheduler, error) {
	if err := models.ValidateDurations(makeDuration, serveDuration); err != nil {
		return nil, err
	}
	s := &Scheduler{
		clock:         clk,
		start:         clk.Now(),
		makeDuration:  makeDuration,
		serveDuration: serveDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scheduler) StartTime() time.Time {
	return s.start
}

// Arrivals returns a copy of the recorded arrival times.
func (s *Scheduler) Arrivals() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, len(s.arrivals))
	copy(out, s.arrivals)
	return out
}

// RecordArrival records an order placed now and replays the day.
func (s *Scheduler) RecordArrival() ([]models.Action, error) {
	return s.RecordArrivalAt(s.clock.Now())
}

func (s *Scheduler) RecordArrivalAt(t time.Time) ([]models.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t = t.Truncate(time.Second)
	if n := len(s.arrivals); n > 0 && t.Before(s.arrivals[n-1]) {
		w := &models.ClockRegressionWarning{
			OrderNumber: n + 1,
			Previous:    s.arrivals[n-1],
			Arrival:     t,
		}
		log.Printf("Warning: %v; replaying in insertion order", w)
		if s.onWarning != nil {
			s.onWarning(w)
		}
	}
	s.arrivals = append(s.arrivals, t)

	return s.rebuild()
}

// Rebuild replays every recorded arrival from the opening time.
func (s *Scheduler) Rebuild() ([]models.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuild()
}

func (s *Scheduler) rebuild() ([]models.Action, error) {
	actions := make([]models.Action, 0, 2*len(s.arrivals)+1)
	err := Replay(s.start, s.arrivals, s.makeDuration, s.serveDuration, func(a models.Action) error {
		actions = append(actions, a)
		if s.renderer != nil {
			if err := s.renderer.Render(a); err != nil {
				return fmt.Errorf("failed to render action %d: %w", a.Sequence, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.renderer != nil {
		if err := s.renderer.EndOfLog(); err != nil {
			return nil, fmt.Errorf("failed to end log: %w", err)
		}
	}
	return actions, nil
}
