package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

// ErrAlreadyResolved reports a resolve attempt on an exchange request that
// already left the PENDING state.
var ErrAlreadyResolved = errors.New("exchange request already resolved")

const exchangeColumns = "id, origin_shift_id, dest_shift_id, origin_owner_id, dest_owner_id, state, resolved_at, created_at, updated_at"

// ExchangeRepository provides persistence for shift exchange requests.
type ExchangeRepository struct {
	db *sqlx.DB
}

// NewExchangeRepository creates a new exchange repository.
func NewExchangeRepository(db *sqlx.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// FindByID loads an exchange request by id.
func (r *ExchangeRepository) FindByID(ctx context.Context, id string) (*models.ShiftExchangeRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_exchange_requests WHERE id = $1", exchangeColumns)
	var req models.ShiftExchangeRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByOwner returns requests where the trainer is origin or destination.
func (r *ExchangeRepository) ListByOwner(ctx context.Context, trainerID string) ([]models.ShiftExchangeRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_exchange_requests WHERE origin_owner_id = $1 OR dest_owner_id = $1 ORDER BY created_at DESC", exchangeColumns)
	var list []models.ShiftExchangeRequest
	if err := r.db.SelectContext(ctx, &list, query, trainerID); err != nil {
		return nil, fmt.Errorf("list exchange requests by owner: %w", err)
	}
	return list, nil
}

// Create stores a new PENDING request.
func (r *ExchangeRepository) Create(ctx context.Context, req *models.ShiftExchangeRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	req.State = models.ExchangePending

	const query = `INSERT INTO shift_exchange_requests (id, origin_shift_id, dest_shift_id, origin_owner_id, dest_owner_id, state, resolved_at, created_at, updated_at) VALUES (:id, :origin_shift_id, :dest_shift_id, :origin_owner_id, :dest_owner_id, :state, :resolved_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create exchange request: %w", err)
	}
	return nil
}

// ResolveTx moves a PENDING request to its terminal state inside the swap
// transaction. Guarding on the prior state keeps double resolution out.
func (r *ExchangeRepository) ResolveTx(ctx context.Context, tx *sqlx.Tx, id string, state models.ExchangeState) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	now := time.Now().UTC()
	const query = `UPDATE shift_exchange_requests SET state = $2, resolved_at = $3, updated_at = $3 WHERE id = $1 AND state = $4`
	res, err := tx.ExecContext(ctx, query, id, state, now, models.ExchangePending)
	if err != nil {
		return fmt.Errorf("resolve exchange request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve exchange request: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("resolve exchange request %s: %w", id, ErrAlreadyResolved)
	}
	return nil
}

// BeginTx starts a transaction scoped to the exchange swap.
func (r *ExchangeRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin exchange tx: %w", err)
	}
	return tx, nil
}
