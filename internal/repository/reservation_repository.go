package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

const reservationColumns = "id, occurrence_id, member_id, state, created_at, updated_at"

// ReservationRepository provides persistence for class seat reservations.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// FindByID loads a reservation by id.
func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*models.ClassReservation, error) {
	query := fmt.Sprintf("SELECT %s FROM class_reservations WHERE id = $1", reservationColumns)
	var res models.ClassReservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}
	return &res, nil
}

// CountActive returns the occupied seats of an occurrence: reservations in
// any state but CANCELLED.
func (r *ReservationRepository) CountActive(ctx context.Context, occurrenceID string) (int, error) {
	const query = `SELECT COUNT(*) FROM class_reservations WHERE occurrence_id = $1 AND state <> $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, occurrenceID, models.ReservationCancelled); err != nil {
		return 0, fmt.Errorf("count active reservations: %w", err)
	}
	return count, nil
}

// HasActiveForMember reports whether the member already holds a
// non-cancelled reservation on the occurrence.
func (r *ReservationRepository) HasActiveForMember(ctx context.Context, occurrenceID, memberID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM class_reservations WHERE occurrence_id = $1 AND member_id = $2 AND state <> $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, occurrenceID, memberID, models.ReservationCancelled); err != nil {
		return false, fmt.Errorf("check member reservation: %w", err)
	}
	return count > 0, nil
}

// Create stores a new reservation.
func (r *ReservationRepository) Create(ctx context.Context, res *models.ClassReservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	const query = `INSERT INTO class_reservations (id, occurrence_id, member_id, state, created_at, updated_at) VALUES (:id, :occurrence_id, :member_id, :state, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, res); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// UpdateState persists a lifecycle transition.
func (r *ReservationRepository) UpdateState(ctx context.Context, id string, state models.ReservationState) error {
	const query = `UPDATE class_reservations SET state = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, state, time.Now().UTC()); err != nil {
		return fmt.Errorf("update reservation state: %w", err)
	}
	return nil
}

// MarkNoShowPastTx advances RESERVED reservations on past occurrences to
// NO_SHOW. Returns rows changed; re-running is a no-op.
func (r *ReservationRepository) MarkNoShowPastTx(ctx context.Context, tx *sqlx.Tx, asOf time.Time) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	const query = `
		UPDATE class_reservations cr SET state = $2, updated_at = $3
		FROM class_occurrences o
		WHERE cr.occurrence_id = o.id AND cr.state = $4 AND o.date < $1`
	res, err := tx.ExecContext(ctx, query, models.DateOnly(asOf), models.ReservationNoShow, time.Now().UTC(), models.ReservationReserved)
	if err != nil {
		return 0, fmt.Errorf("mark no-show reservations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark no-show reservations: %w", err)
	}
	return int(affected), nil
}
