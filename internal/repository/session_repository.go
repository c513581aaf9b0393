package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

const sessionColumns = "id, trainer_id, member_id, date, start_time, end_time, state, notes, created_at, updated_at"

// SessionRepository provides persistence for personal sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FindByID loads a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.PersonalSession, error) {
	query := fmt.Sprintf("SELECT %s FROM personal_sessions WHERE id = $1", sessionColumns)
	var s models.PersonalSession
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListActiveByTrainerDate returns the trainer's non-cancelled sessions on a
// calendar date, the input for soft-conflict detection.
func (r *SessionRepository) ListActiveByTrainerDate(ctx context.Context, trainerID string, date time.Time) ([]models.PersonalSession, error) {
	query := fmt.Sprintf("SELECT %s FROM personal_sessions WHERE trainer_id = $1 AND date = $2 AND state <> $3 ORDER BY start_time ASC", sessionColumns)
	var sessions []models.PersonalSession
	if err := r.db.SelectContext(ctx, &sessions, query, trainerID, models.DateOnly(date), models.SessionCancelled); err != nil {
		return nil, fmt.Errorf("list sessions by trainer and date: %w", err)
	}
	return sessions, nil
}

// ListByMember returns a member's sessions, newest first.
func (r *SessionRepository) ListByMember(ctx context.Context, memberID string) ([]models.PersonalSession, error) {
	query := fmt.Sprintf("SELECT %s FROM personal_sessions WHERE member_id = $1 ORDER BY date DESC, start_time DESC", sessionColumns)
	var sessions []models.PersonalSession
	if err := r.db.SelectContext(ctx, &sessions, query, memberID); err != nil {
		return nil, fmt.Errorf("list sessions by member: %w", err)
	}
	return sessions, nil
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, s *models.PersonalSession) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	const query = `INSERT INTO personal_sessions (id, trainer_id, member_id, date, start_time, end_time, state, notes, created_at, updated_at) VALUES (:id, :trainer_id, :member_id, :date, :start_time, :end_time, :state, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create personal session: %w", err)
	}
	return nil
}

// UpdateState persists a lifecycle transition.
func (r *SessionRepository) UpdateState(ctx context.Context, id string, state models.SessionState) error {
	const query = `UPDATE personal_sessions SET state = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, state, time.Now().UTC()); err != nil {
		return fmt.Errorf("update session state: %w", err)
	}
	return nil
}

// MarkNoShowPastTx advances SCHEDULED sessions with a past date to NO_SHOW.
// Returns rows changed; re-running is a no-op.
func (r *SessionRepository) MarkNoShowPastTx(ctx context.Context, tx *sqlx.Tx, asOf time.Time) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE personal_sessions SET state = $2, updated_at = $3 WHERE state = $4 AND date < $1`
	res, err := tx.ExecContext(ctx, query, models.DateOnly(asOf), models.SessionNoShow, time.Now().UTC(), models.SessionScheduled)
	if err != nil {
		return 0, fmt.Errorf("mark no-show sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark no-show sessions: %w", err)
	}
	return int(affected), nil
}
