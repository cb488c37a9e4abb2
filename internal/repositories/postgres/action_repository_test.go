package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/sandwichsim/internal/models"
)

func TestActionRow_BreakHasNullOrder(t *testing.T) {
	row := actionRow(models.ActionEvent{RunID: "r1", Replay: 2, Sequence: 3, EventType: "break", Label: "Take a break.", Timestamp: 99})
	require.Len(t, row, len(actionColumns))
	assert.Nil(t, row[5])
	assert.Equal(t, "r1", row[0])
	assert.Equal(t, int64(99), row[6])

	row = actionRow(models.ActionEvent{Sequence: 1, EventType: "make", OrderNumber: 4})
	assert.Equal(t, int32(4), row[5])
}

// Runs against a real database when SANDWICHSIM_TEST_DATABASE_URL is set.
func TestActionRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("SANDWICHSIM_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SANDWICHSIM_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewActionRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.DeleteAll(ctx))

	events := []models.ActionEvent{
		{RunID: "run-a", Replay: 1, Sequence: 1, EventType: "make", Label: "Make Sandwich", OrderNumber: 1, Timestamp: 0},
		{RunID: "run-a", Replay: 1, Sequence: 2, EventType: "serve", Label: "Serve Sandwich", OrderNumber: 1, Timestamp: 150},
	}
	require.NoError(t, repo.BulkCreate(ctx, events))
	require.NoError(t, repo.Create(ctx, models.ActionEvent{RunID: "run-a", Replay: 1, Sequence: 3, EventType: "break", Label: "Take a break.", Timestamp: 210}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := repo.GetByRun(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, events[0], got[0])
	assert.Equal(t, int32(0), got[2].OrderNumber)
}
