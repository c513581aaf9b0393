package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

// MemberRepository provides persistence for member accounts.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// FindByID loads a member by id.
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*models.Member, error) {
	const query = `SELECT id, full_name, email, phone, status, created_at, updated_at FROM members WHERE id = $1`
	var m models.Member
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateStatusTx sets the member's derived account standing.
func (r *MemberRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status models.MemberStatus) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE members SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	return nil
}

// MarkInactiveTx flags members whose latest membership ended on or before
// the cutoff and who hold no current membership. Runs before
// MarkDelinquentTx so long-gone members are not double counted as
// delinquent.
func (r *MemberRepository) MarkInactiveTx(ctx context.Context, tx *sqlx.Tx, cutoff time.Time) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	const query = `
		UPDATE members m SET status = $2, updated_at = $3
		WHERE m.status <> $2
		  AND NOT EXISTS (
			SELECT 1 FROM memberships ms
			WHERE ms.member_id = m.id AND ms.state IN ($4, $5)
		  )
		  AND EXISTS (SELECT 1 FROM memberships ms WHERE ms.member_id = m.id)
		  AND (SELECT MAX(ms.expiry_date) FROM memberships ms WHERE ms.member_id = m.id) <= $1`
	res, err := tx.ExecContext(ctx, query,
		models.DateOnly(cutoff), models.MemberStatusInactive, time.Now().UTC(),
		models.MembershipActive, models.MembershipPaused)
	if err != nil {
		return 0, fmt.Errorf("mark inactive members: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark inactive members: %w", err)
	}
	return int(affected), nil
}

// MarkDelinquentTx flags members whose membership lapsed. A member holding
// an ACTIVE or PAUSED membership is never flagged; members already INACTIVE
// or DELINQUENT are left alone, keeping the sweep idempotent.
func (r *MemberRepository) MarkDelinquentTx(ctx context.Context, tx *sqlx.Tx) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	const query = `
		UPDATE members m SET status = $1, updated_at = $2
		WHERE m.status = $3
		  AND NOT EXISTS (
			SELECT 1 FROM memberships ms
			WHERE ms.member_id = m.id AND ms.state IN ($4, $5)
		  )
		  AND EXISTS (SELECT 1 FROM memberships ms WHERE ms.member_id = m.id)`
	res, err := tx.ExecContext(ctx, query,
		models.MemberStatusDelinquent, time.Now().UTC(),
		models.MemberStatusActive, models.MembershipActive, models.MembershipPaused)
	if err != nil {
		return 0, fmt.Errorf("mark delinquent members: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark delinquent members: %w", err)
	}
	return int(affected), nil
}
