package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

// ClassRepository provides read access to the class catalog.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID loads a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, trainer_id, capacity, active, created_at, updated_at FROM classes WHERE id = $1`
	var c models.Class
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}
