package output

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/sandwichsim/internal/models"
)

var noon = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func eventMsg(t *testing.T, replay int, a models.Action) []byte {
	t.Helper()
	msg, err := json.Marshal(models.NewActionEvent("run1", replay, a))
	require.NoError(t, err)
	return msg
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf)

	require.NoError(t, out.WriteMessage("sandwich_actions", []byte(`{"sequence":1}`)))
	require.NoError(t, out.Close())
	assert.Equal(t, "[sandwich_actions] {\"sequence\":1}\n", buf.String())
}

func TestJSONOutput_PartitionsByDateAndRun(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "shop")

	require.NoError(t, out.WriteMessage(models.TopicSandwichActions, eventMsg(t, 1, models.Action{Sequence: 1, Time: noon, Kind: models.ActionMake, OrderNumber: 1})))
	require.NoError(t, out.WriteMessage(models.TopicSandwichActions, eventMsg(t, 1, models.Action{Sequence: 2, Time: noon.Add(150 * time.Second), Kind: models.ActionBreak})))
	require.NoError(t, out.Close())

	path := filepath.Join(dir, "shop", models.TopicSandwichActions, "date=2024-01-01", "run=run1", "data.json")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "make", lines[0]["eventType"])
	assert.Equal(t, float64(1), lines[0]["orderNumber"])
	assert.Equal(t, "02:30", lines[1]["clock"])
	assert.NotContains(t, lines[1], "orderNumber")
}

func TestJSONOutput_RejectsMissingTimestamp(t *testing.T) {
	out := NewJSONOutput(t.TempDir(), "shop")
	assert.Error(t, out.WriteMessage(models.TopicSandwichActions, []byte(`{"sequence":1}`)))
	assert.Error(t, out.WriteMessage(models.TopicSandwichActions, []byte(`not json`)))
}

func TestCSVOutput_WritesHeaderOnceAndIntegers(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir, "shop")

	require.NoError(t, out.WriteMessage(models.TopicSandwichActions, eventMsg(t, 1, models.Action{Sequence: 1, Time: noon, Kind: models.ActionBreak})))
	require.NoError(t, out.WriteMessage(models.TopicSandwichActions, eventMsg(t, 2, models.Action{Sequence: 1, Time: noon, Kind: models.ActionMake, OrderNumber: 1})))
	require.NoError(t, out.Close())

	f, err := os.Open(filepath.Join(dir, "shop", models.TopicSandwichActions, "date=2024-01-01", "run=run1", "data.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"clock", "eventType", "label", "orderNumber", "replay", "runId", "sequence", "timestamp"}, records[0])
	assert.Equal(t, []string{"00:00", "break", "Take a break.", "", "1", "run1", "1", "1704110400"}, records[1])
	assert.Equal(t, []string{"00:00", "make", "Make Sandwich", "1", "2", "run1", "1", "1704110400"}, records[2])
}
