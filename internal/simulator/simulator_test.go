package simulator

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/chrisdamba/sandwichsim/internal/render"
	"github.com/chrisdamba/sandwichsim/internal/timeline"
)

func testConfig() *models.Config {
	return &models.Config{
		MakeDuration:  2 * time.Second,
		ServeDuration: time.Second,
		StartTime:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Seed:          7,
		Orders:        12,
		MaxGap:        8 * time.Second,
	}
}

func TestSimulator_RunMatchesPureTimeline(t *testing.T) {
	cfg := testConfig()
	collector := &render.Collector{}
	sim, err := NewSimulator(cfg, collector, nil)
	require.NoError(t, err)

	result, err := sim.Run()
	require.NoError(t, err)

	require.Len(t, result.Arrivals, cfg.Orders)
	require.Len(t, result.Customers, cfg.Orders)
	assert.Len(t, collector.Replays, cfg.Orders, "one replay per order")
	assert.Equal(t, cfg.StartTime, result.Arrivals[0])
	for i := 1; i < len(result.Arrivals); i++ {
		gap := result.Arrivals[i].Sub(result.Arrivals[i-1])
		assert.GreaterOrEqual(t, gap, time.Duration(0))
		assert.LessOrEqual(t, gap, cfg.MaxGap)
	}

	want, err := timeline.BuildTimeline(cfg.StartTime, result.Arrivals, cfg.MakeDuration, cfg.ServeDuration)
	require.NoError(t, err)
	assert.Equal(t, want, result.Actions)
	assert.Equal(t, collector.Last(), result.Actions)
	assert.Equal(t, cfg.Orders, result.Summary.Orders)
}

func TestSimulator_SameSeedSameDay(t *testing.T) {
	var first, second bytes.Buffer

	sim, err := NewSimulator(testConfig(), render.NewConsoleRenderer(&first), nil)
	require.NoError(t, err)
	_, err = sim.Run()
	require.NoError(t, err)

	sim, err = NewSimulator(testConfig(), render.NewConsoleRenderer(&second), nil)
	require.NoError(t, err)
	_, err = sim.Run()
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
	assert.NotEmpty(t, first.String())
}

func TestSimulator_NoOrders(t *testing.T) {
	cfg := testConfig()
	cfg.Orders = 0
	var buf bytes.Buffer
	sim, err := NewSimulator(cfg, render.NewConsoleRenderer(&buf), nil)
	require.NoError(t, err)

	result, err := sim.Run()
	require.NoError(t, err)
	assert.Empty(t, result.Arrivals)
	assert.Equal(t, " 1. 00:00 Take a break.\n\n", buf.String())
}

func TestSimulator_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ServeDuration = 0
	_, err := NewSimulator(cfg, nil, nil)
	assert.True(t, models.IsInvalidDuration(err))

	cfg = testConfig()
	cfg.Orders = -1
	sim, err := NewSimulator(cfg, nil, nil)
	require.NoError(t, err)
	_, err = sim.Run()
	assert.Error(t, err)
}
