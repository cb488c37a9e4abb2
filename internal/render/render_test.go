package render

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/sandwichsim/internal/models"
)

var noon = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFormatAction(t *testing.T) {
	tests := []struct {
		name   string
		action models.Action
		want   string
	}{
		{"make", models.Action{Sequence: 1, Time: noon, Kind: models.ActionMake, OrderNumber: 1}, " 1. 00:00 Make Sandwich 1"},
		{"serve", models.Action{Sequence: 2, Time: noon.Add(150 * time.Second), Kind: models.ActionServe, OrderNumber: 1}, " 2. 02:30 Serve Sandwich 1"},
		{"break has no order", models.Action{Sequence: 3, Time: noon.Add(210 * time.Second), Kind: models.ActionBreak}, " 3. 03:30 Take a break."},
		{"minutes wrap at the hour", models.Action{Sequence: 12, Time: noon.Add(61*time.Minute + 5*time.Second), Kind: models.ActionMake, OrderNumber: 10}, " 12. 01:05 Make Sandwich 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAction(tt.action))
		})
	}
}

func TestConsoleRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(&buf)

	require.NoError(t, r.Render(models.Action{Sequence: 1, Time: noon, Kind: models.ActionMake, OrderNumber: 1}))
	require.NoError(t, r.Render(models.Action{Sequence: 2, Time: noon, Kind: models.ActionBreak}))
	require.NoError(t, r.EndOfLog())

	assert.Equal(t, " 1. 00:00 Make Sandwich 1\n 2. 00:00 Take a break.\n\n", buf.String())
}

type errRenderer struct{ err error }

func (e errRenderer) Render(models.Action) error { return e.err }
func (e errRenderer) EndOfLog() error            { return e.err }

func TestMulti(t *testing.T) {
	first, second := &Collector{}, &Collector{}
	m := Multi(first, second)
	a := models.Action{Sequence: 1, Time: noon, Kind: models.ActionBreak}

	require.NoError(t, m.Render(a))
	require.NoError(t, m.EndOfLog())
	assert.Equal(t, []models.Action{a}, first.Last())
	assert.Equal(t, []models.Action{a}, second.Last())

	boom := errors.New("boom")
	third := &Collector{}
	m = Multi(errRenderer{boom}, third)
	assert.ErrorIs(t, m.Render(a), boom)
	assert.ErrorIs(t, m.EndOfLog(), boom)
	assert.Equal(t, []models.Action{a}, third.Last(), "later renderers still run")
}

func TestCollector_LastEmpty(t *testing.T) {
	assert.Nil(t, (&Collector{}).Last())
}
