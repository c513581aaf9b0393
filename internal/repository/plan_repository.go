package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

// PlanRepository provides read access to the plan catalog.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new plan repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByID loads a plan by id.
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	const query = `SELECT id, name, duration_days, price, active, created_at, updated_at FROM plans WHERE id = $1`
	var p models.Plan
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// PaymentRepository records charges paired with membership assignments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// InsertTx stores a payment row inside the assignment transaction.
func (r *PaymentRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, p *models.Payment) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = now
	}

	const query = `INSERT INTO payments (id, member_id, membership_id, amount, method, paid_at, created_at) VALUES (:id, :member_id, :membership_id, :amount, :method, :paid_at, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, query, p); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// FindByMembership returns the payment paired with a membership.
func (r *PaymentRepository) FindByMembership(ctx context.Context, membershipID string) (*models.Payment, error) {
	const query = `SELECT id, member_id, membership_id, amount, method, paid_at, created_at FROM payments WHERE membership_id = $1`
	var p models.Payment
	if err := r.db.GetContext(ctx, &p, query, membershipID); err != nil {
		return nil, err
	}
	return &p, nil
}
