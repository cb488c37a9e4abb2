package output

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/sandwichsim/internal/models"
)

type recordingOutput struct {
	topics []string
	msgs   [][]byte
	err    error
	closed bool
}

func (r *recordingOutput) WriteMessage(topic string, msg []byte) error {
	r.topics = append(r.topics, topic)
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recordingOutput) Close() error {
	r.closed = true
	return nil
}

func TestSinkRenderer_StampsRunAndReplay(t *testing.T) {
	first, second := &recordingOutput{}, &recordingOutput{}
	sink := NewSinkRenderer(models.TopicSandwichActions, first, second)
	require.NotEmpty(t, sink.RunID())

	require.NoError(t, sink.Render(models.Action{Sequence: 1, Time: noon, Kind: models.ActionBreak}))
	require.NoError(t, sink.EndOfLog())
	require.NoError(t, sink.Render(models.Action{Sequence: 1, Time: noon, Kind: models.ActionMake, OrderNumber: 1}))
	require.NoError(t, sink.Close())

	require.Len(t, first.msgs, 2)
	assert.Equal(t, first.msgs, second.msgs)
	assert.Equal(t, []string{models.TopicSandwichActions, models.TopicSandwichActions}, first.topics)
	assert.True(t, first.closed)
	assert.True(t, second.closed)

	var events [2]models.ActionEvent
	for i := range events {
		require.NoError(t, json.Unmarshal(first.msgs[i], &events[i]))
		assert.Equal(t, sink.RunID(), events[i].RunID)
	}
	assert.Equal(t, int64(1), events[0].Replay)
	assert.Equal(t, int64(2), events[1].Replay)
	assert.Equal(t, int32(1), events[1].OrderNumber)
}

func TestSinkRenderer_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok := &recordingOutput{}
	sink := NewSinkRenderer(models.TopicSandwichActions, &recordingOutput{err: boom}, ok)

	err := sink.Render(models.Action{Sequence: 1, Time: noon, Kind: models.ActionBreak})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.msgs, 1)
}

func TestNewOutputDestinations(t *testing.T) {
	ctx := context.Background()

	dests, err := NewOutputDestinations(ctx, &models.Config{OutputFormat: "console"}, nil)
	require.NoError(t, err)
	assert.Empty(t, dests)

	dests, err = NewOutputDestinations(ctx, &models.Config{OutputFormat: "json", OutputPath: t.TempDir()}, nil)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.IsType(t, &JSONOutput{}, dests[0])

	dests, err = NewOutputDestinations(ctx, &models.Config{OutputFormat: "csv", OutputPath: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &CSVOutput{}, dests[0])

	_, err = NewOutputDestinations(ctx, &models.Config{OutputFormat: "avro"}, nil)
	assert.Error(t, err)
}
