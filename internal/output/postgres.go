package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/sandwichsim/internal/models"
	"github.com/chrisdamba/sandwichsim/internal/repositories"
	"github.com/chrisdamba/sandwichsim/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPostgresBatchSize = 100

// PostgresOutput exports action events through an ActionRepository,
// buffering up to batchSize events per COPY.
type PostgresOutput struct {
	repo      repositories.ActionRepository
	pool      *pgxpool.Pool
	batchSize int
	pending   []models.ActionEvent
}

func NewPostgresOutput(ctx context.Context, config *models.DatabaseConfig) (*PostgresOutput, error) {
	pool, err := pgxpool.New(ctx, config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	repo := postgres.NewActionRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	out := NewPostgresOutputWithRepository(repo, defaultPostgresBatchSize)
	out.pool = pool
	return out, nil
}

func NewPostgresOutputWithRepository(repo repositories.ActionRepository, batchSize int) *PostgresOutput {
	if batchSize <= 0 {
		batchSize = defaultPostgresBatchSize
	}
	return &PostgresOutput{repo: repo, batchSize: batchSize}
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	if topic != models.TopicSandwichActions {
		return fmt.Errorf("no table for topic %s", topic)
	}

	var event models.ActionEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	p.pending = append(p.pending, event)

	if len(p.pending) >= p.batchSize {
		return p.Flush(context.Background())
	}
	return nil
}

func (p *PostgresOutput) Flush(ctx context.Context) error {
	if len(p.pending) == 0 {
		return nil
	}
	if err := p.repo.BulkCreate(ctx, p.pending); err != nil {
		return fmt.Errorf("failed to insert into sandwich_actions: %w", err)
	}
	p.pending = nil
	return nil
}

func (p *PostgresOutput) Close() error {
	err := p.Flush(context.Background())
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return err
}
