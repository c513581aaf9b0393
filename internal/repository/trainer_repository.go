package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

// TrainerRepository provides read access to the trainer roster.
type TrainerRepository struct {
	db *sqlx.DB
}

// NewTrainerRepository creates a new trainer repository.
func NewTrainerRepository(db *sqlx.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// FindByID loads a trainer by id.
func (r *TrainerRepository) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	const query = `SELECT id, full_name, email, specialty, active, created_at, updated_at FROM trainers WHERE id = $1`
	var t models.Trainer
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, err
	}
	return &t, nil
}
