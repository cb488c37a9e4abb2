package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const actionsTable = "sandwich_actions"

var actionColumns = []string{
	"run_id", "replay", "sequence", "event_type", "label", "order_number", "occurred_at",
}

type ActionRepository struct {
	pool *pgxpool.Pool
}

func NewActionRepository(pool *pgxpool.Pool) *ActionRepository {
	return &ActionRepository{pool: pool}
}

func (r *ActionRepository) EnsureSchema(ctx context.Context) error {
	stmt := `
        CREATE TABLE IF NOT EXISTS sandwich_actions (
            run_id       TEXT        NOT NULL,
            replay       BIGINT      NOT NULL,
            sequence     BIGINT      NOT NULL,
            event_type   TEXT        NOT NULL,
            label        TEXT        NOT NULL,
            order_number INTEGER,
            occurred_at  BIGINT      NOT NULL,
            PRIMARY KEY (run_id, replay, sequence)
        )`
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create %s: %w", actionsTable, err)
	}
	return nil
}

func (r *ActionRepository) BulkCreate(ctx context.Context, events []models.ActionEvent) error {
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, actionRow(e))
	}

	_, err := r.pool.CopyFrom(ctx, pgx.Identifier{actionsTable}, actionColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy %d actions: %w", len(events), err)
	}
	return nil
}

func (r *ActionRepository) Create(ctx context.Context, event models.ActionEvent) error {
	stmt := `
        INSERT INTO sandwich_actions (
            run_id, replay, sequence, event_type, label, order_number, occurred_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt, actionRow(event)...)
	if err != nil {
		return fmt.Errorf("failed to insert action %d: %w", event.Sequence, err)
	}
	return nil
}

func (r *ActionRepository) GetByRun(ctx context.Context, runID string) ([]models.ActionEvent, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT run_id, replay, sequence, event_type, label, order_number, occurred_at
        FROM sandwich_actions
        WHERE run_id = $1
        ORDER BY replay, sequence`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ActionEvent
	for rows.Next() {
		var (
			e     models.ActionEvent
			order *int32
		)
		if err := rows.Scan(&e.RunID, &e.Replay, &e.Sequence, &e.EventType, &e.Label, &order, &e.Timestamp); err != nil {
			return nil, err
		}
		if order != nil {
			e.OrderNumber = *order
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *ActionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sandwich_actions").Scan(&count)
	return count, err
}

func (r *ActionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM sandwich_actions")
	return err
}

// actionRow orders values as actionColumns. Breaks store a NULL order number.
func actionRow(e models.ActionEvent) []any {
	var order any
	if e.OrderNumber > 0 {
		order = e.OrderNumber
	}
	return []any{e.RunID, e.Replay, e.Sequence, e.EventType, e.Label, order, e.Timestamp}
}
