package repository

import (
	"context"

	"loan-approval/domain"
)

// PredictionRepository keeps the dashboard's prediction history for the session.
type PredictionRepository interface {
	Save(ctx context.Context, record domain.PredictionRecord) error
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]domain.PredictionRecord, error)
	Stats(ctx context.Context) (domain.PredictionStats, error)
}
