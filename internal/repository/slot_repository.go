package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

const slotColumns = "id, kind, owner_id, class_id, weekday, start_time, end_time, active_from, active_to, active, created_at, updated_at"

// SlotRepository provides persistence for recurring schedule slots (class
// rules and reception shifts share the same table, discriminated by kind).
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// FindByID loads a slot by id.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE id = $1", slotColumns)
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListActiveByOwner returns every active slot of one kind owned by a trainer.
func (r *SlotRepository) ListActiveByOwner(ctx context.Context, ownerID string, kind models.SlotKind) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE owner_id = $1 AND kind = $2 AND active = TRUE ORDER BY weekday ASC, start_time ASC", slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, ownerID, kind); err != nil {
		return nil, fmt.Errorf("list active slots by owner: %w", err)
	}
	return slots, nil
}

// ListActiveByOwnerWeekday narrows ListActiveByOwner to a single weekday,
// the granularity at which conflict checks run.
func (r *SlotRepository) ListActiveByOwnerWeekday(ctx context.Context, ownerID string, kind models.SlotKind, weekday int) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE owner_id = $1 AND kind = $2 AND weekday = $3 AND active = TRUE ORDER BY start_time ASC", slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, ownerID, kind, weekday); err != nil {
		return nil, fmt.Errorf("list active slots by owner and weekday: %w", err)
	}
	return slots, nil
}

// ListActiveByClass returns the active slot rows making up a class rule.
func (r *SlotRepository) ListActiveByClass(ctx context.Context, classID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE class_id = $1 AND active = TRUE ORDER BY weekday ASC, start_time ASC", slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, classID); err != nil {
		return nil, fmt.Errorf("list active slots by class: %w", err)
	}
	return slots, nil
}

// Create stores a single slot row.
func (r *SlotRepository) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	return r.insert(ctx, r.db, slot)
}

// CreateTx stores a slot row inside an existing transaction.
func (r *SlotRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, slot *models.ScheduleSlot) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.insert(ctx, tx, slot)
}

func (r *SlotRepository) insert(ctx context.Context, exec sqlx.ExtContext, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now
	slot.Active = true

	const query = `INSERT INTO schedule_slots (id, kind, owner_id, class_id, weekday, start_time, end_time, active_from, active_to, active, created_at, updated_at) VALUES (:id, :kind, :owner_id, :class_id, :weekday, :start_time, :end_time, :active_from, :active_to, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, slot); err != nil {
		return fmt.Errorf("insert schedule slot: %w", err)
	}
	return nil
}

// DeactivateByClassTx logically supersedes a class rule: rows stay behind
// for history but stop participating in conflict checks.
func (r *SlotRepository) DeactivateByClassTx(ctx context.Context, tx *sqlx.Tx, classID string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE schedule_slots SET active = FALSE, updated_at = $2 WHERE class_id = $1 AND active = TRUE`
	if _, err := tx.ExecContext(ctx, query, classID, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate slots by class: %w", err)
	}
	return nil
}

// Deactivate retires a single slot row.
func (r *SlotRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE schedule_slots SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate slot: %w", err)
	}
	return nil
}

// UpdateOwnerTx reassigns a slot to another trainer. Used by the shift
// exchange swap, which must update both sides in one transaction.
func (r *SlotRepository) UpdateOwnerTx(ctx context.Context, tx *sqlx.Tx, slotID, ownerID string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE schedule_slots SET owner_id = $2, updated_at = $3 WHERE id = $1`
	res, err := tx.ExecContext(ctx, query, slotID, ownerID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update slot owner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slot owner: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update slot owner: slot %s not found", slotID)
	}
	return nil
}

// BeginTx starts a transaction scoped to schedule writes.
func (r *SlotRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin slot tx: %w", err)
	}
	return tx, nil
}
