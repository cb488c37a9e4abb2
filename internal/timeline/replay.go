// Package timeline reconstructs the sandwich worker's day from the recorded
// order arrivals.
//
// A replay always starts from the shop's opening time and walks every
// arrival in insertion order. For each order the worker takes a break if
// the order arrived after the worker became free, makes the sandwich, then
// serves it. One terminal break closes every replay, including an empty one.
//
// Arrivals are never sorted. An arrival earlier than its predecessor is
// replayed where it was inserted; Scheduler logs a ClockRegressionWarning.
package timeline

import (
	"time"

	"github.com/chrisdamba/sandwichsim/internal/models"
)

// ReplayState is the mutable part of one replay: when the worker is next
// free and how many actions have been emitted so far.
type ReplayState struct {
	WorkerClock   time.Time
	Sequence      int
	MakeDuration  time.Duration
	ServeDuration time.Duration
}

func NewReplayState(start time.Time, makeDuration, serveDuration time.Duration) *ReplayState {
	return &ReplayState{
		WorkerClock:   start,
		MakeDuration:  makeDuration,
		ServeDuration: serveDuration,
	}
}

func (s *ReplayState) emit(kind models.ActionKind, orderNumber int) models.Action {
	s.Sequence++
	return models.Action{
		Sequence:    s.Sequence,
		Time:        s.WorkerClock,
		Kind:        kind,
		OrderNumber: orderNumber,
	}
}

// MaybeTakeBreak emits a break iff next is strictly after the worker clock.
// The break is stamped when it starts; the clock then jumps to next.
func (s *ReplayState) MaybeTakeBreak(next time.Time) (models.Action, bool) {
	if !next.After(s.WorkerClock) {
		return models.Action{}, false
	}
	a := s.emit(models.ActionBreak, 0)
	s.WorkerClock = next
	return a, true
}

func (s *ReplayState) MakeSandwich(orderNumber int) models.Action {
	a := s.emit(models.ActionMake, orderNumber)
	s.WorkerClock = s.WorkerClock.Add(s.MakeDuration)
	return a
}

func (s *ReplayState) ServeSandwich(orderNumber int) models.Action {
	a := s.emit(models.ActionServe, orderNumber)
	s.WorkerClock = s.WorkerClock.Add(s.ServeDuration)
	return a
}

// FinishDay emits the terminal break. The clock does not move.
func (s *ReplayState) FinishDay() models.Action {
	return s.emit(models.ActionBreak, 0)
}

// Replay walks arrivals and hands each action to emit as soon as it is
// produced. It stops at the first emit error.
func Replay(start time.Time, arrivals []time.Time, makeDuration, serveDuration time.Duration, emit func(models.Action) error) error {
	if err := models.ValidateDurations(makeDuration, serveDuration); err != nil {
		return err
	}

	state := NewReplayState(start, makeDuration, serveDuration)
	for i, arrival := range arrivals {
		orderNumber := i + 1
		if a, ok := state.MaybeTakeBreak(arrival); ok {
			if err := emit(a); err != nil {
				return err
			}
		}
		if err := emit(state.MakeSandwich(orderNumber)); err != nil {
			return err
		}
		if err := emit(state.ServeSandwich(orderNumber)); err != nil {
			return err
		}
	}
	return emit(state.FinishDay())
}

// BuildTimeline is the pure form of Replay: same inputs, same actions.
func BuildTimeline(start time.Time, arrivals []time.Time, makeDuration, serveDuration time.Duration) ([]models.Action, error) {
	actions := make([]models.Action, 0, 2*len(arrivals)+1)
	err := Replay(start, arrivals, makeDuration, serveDuration, func(a models.Action) error {
		actions = append(actions, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return actions, nil
}
