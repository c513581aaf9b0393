package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

const membershipColumns = "id, member_id, plan_id, start_date, expiry_date, state, paused_days_remaining, pause_reason, cancel_reason, created_at, updated_at"

// MembershipRepository provides persistence for membership rows.
type MembershipRepository struct {
	db *sqlx.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// FindByID loads a membership by id.
func (r *MembershipRepository) FindByID(ctx context.Context, id string) (*models.Membership, error) {
	query := fmt.Sprintf("SELECT %s FROM memberships WHERE id = $1", membershipColumns)
	var m models.Membership
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindCurrentByMember returns the member's ACTIVE or PAUSED membership, or
// sql.ErrNoRows when none exists. The assignment invariant guarantees at
// most one such row.
func (r *MembershipRepository) FindCurrentByMember(ctx context.Context, memberID string) (*models.Membership, error) {
	query := fmt.Sprintf("SELECT %s FROM memberships WHERE member_id = $1 AND state IN ($2, $3) ORDER BY created_at DESC LIMIT 1", membershipColumns)
	var m models.Membership
	if err := r.db.GetContext(ctx, &m, query, memberID, models.MembershipActive, models.MembershipPaused); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByMember returns the full membership history of a member.
func (r *MembershipRepository) ListByMember(ctx context.Context, memberID string) ([]models.Membership, error) {
	query := fmt.Sprintf("SELECT %s FROM memberships WHERE member_id = $1 ORDER BY created_at DESC", membershipColumns)
	var list []models.Membership
	if err := r.db.SelectContext(ctx, &list, query, memberID); err != nil {
		return nil, fmt.Errorf("list memberships by member: %w", err)
	}
	return list, nil
}

// InsertTx stores a new membership row inside an assignment transaction.
func (r *MembershipRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, m *models.Membership) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	const query = `INSERT INTO memberships (id, member_id, plan_id, start_date, expiry_date, state, paused_days_remaining, pause_reason, cancel_reason, created_at, updated_at) VALUES (:id, :member_id, :plan_id, :start_date, :expiry_date, :state, :paused_days_remaining, :pause_reason, :cancel_reason, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, tx, query, m); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// DemoteCurrentTx moves any ACTIVE or PAUSED membership of the member to
// EXPIRED so a fresh assignment leaves exactly one current row. Pause
// bookkeeping on a demoted row is cleared along the way.
func (r *MembershipRepository) DemoteCurrentTx(ctx context.Context, tx *sqlx.Tx, memberID string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE memberships SET state = $2, paused_days_remaining = 0, updated_at = $3 WHERE member_id = $1 AND state IN ($4, $5)`
	if _, err := tx.ExecContext(ctx, query, memberID, models.MembershipExpired, time.Now().UTC(), models.MembershipActive, models.MembershipPaused); err != nil {
		return fmt.Errorf("demote current membership: %w", err)
	}
	return nil
}

// Update persists membership state mutations (pause, resume, cancel).
func (r *MembershipRepository) Update(ctx context.Context, m *models.Membership) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE memberships SET state = :state, expiry_date = :expiry_date, paused_days_remaining = :paused_days_remaining, pause_reason = :pause_reason, cancel_reason = :cancel_reason, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

// ExpireDueTx advances every ACTIVE membership whose expiry date has passed
// to EXPIRED. Paused memberships do not expire by clock. Returns the number
// of rows changed; re-running is a no-op.
func (r *MembershipRepository) ExpireDueTx(ctx context.Context, tx *sqlx.Tx, asOf time.Time) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE memberships SET state = $2, updated_at = $3 WHERE state = $4 AND expiry_date < $1`
	res, err := tx.ExecContext(ctx, query, models.DateOnly(asOf), models.MembershipExpired, time.Now().UTC(), models.MembershipActive)
	if err != nil {
		return 0, fmt.Errorf("expire due memberships: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire due memberships: %w", err)
	}
	return int(affected), nil
}

// BeginTx starts a transaction scoped to membership writes.
func (r *MembershipRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin membership tx: %w", err)
	}
	return tx, nil
}
