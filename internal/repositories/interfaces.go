package repositories

import (
	"context"

	"github.com/chrisdamba/sandwichsim/internal/models"
)

// ActionRepository stores exported timeline actions. It is write-mostly; the
// shop never reloads its arrival history from it.
type ActionRepository interface {
	EnsureSchema(ctx context.Context) error
	BulkCreate(ctx context.Context, events []models.ActionEvent) error
	Create(ctx context.Context, event models.ActionEvent) error
	GetByRun(ctx context.Context, runID string) ([]models.ActionEvent, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
