package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymops/gym-ops-api/internal/models"
)

const occurrenceColumns = "id, class_id, slot_id, date, start_time, end_time, created_at"

// OccurrenceRepository provides persistence for realized class occurrences.
type OccurrenceRepository struct {
	db *sqlx.DB
}

// NewOccurrenceRepository creates a new occurrence repository.
func NewOccurrenceRepository(db *sqlx.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// FindByID loads an occurrence together with its derived occupancy.
func (r *OccurrenceRepository) FindByID(ctx context.Context, id string) (*models.OccurrenceWithOccupancy, error) {
	const query = `
		SELECT o.id, o.class_id, o.slot_id, o.date, o.start_time, o.end_time, o.created_at,
		       c.capacity,
		       (SELECT COUNT(*) FROM class_reservations cr WHERE cr.occurrence_id = o.id AND cr.state <> $2) AS occupied
		FROM class_occurrences o
		JOIN classes c ON c.id = o.class_id
		WHERE o.id = $1`
	var occ models.OccurrenceWithOccupancy
	if err := r.db.GetContext(ctx, &occ, query, id, models.ReservationCancelled); err != nil {
		return nil, err
	}
	return &occ, nil
}

// FindBySlotDate returns the occurrence realized from a slot on a date, or
// sql.ErrNoRows when it has not been materialized yet.
func (r *OccurrenceRepository) FindBySlotDate(ctx context.Context, slotID string, date time.Time) (*models.ClassOccurrence, error) {
	query := fmt.Sprintf("SELECT %s FROM class_occurrences WHERE slot_id = $1 AND date = $2", occurrenceColumns)
	var occ models.ClassOccurrence
	if err := r.db.GetContext(ctx, &occ, query, slotID, models.DateOnly(date)); err != nil {
		return nil, err
	}
	return &occ, nil
}

// Create materializes an occurrence row.
func (r *OccurrenceRepository) Create(ctx context.Context, occ *models.ClassOccurrence) error {
	if occ.ID == "" {
		occ.ID = uuid.NewString()
	}
	if occ.CreatedAt.IsZero() {
		occ.CreatedAt = time.Now().UTC()
	}
	occ.Date = models.DateOnly(occ.Date)

	const query = `INSERT INTO class_occurrences (id, class_id, slot_id, date, start_time, end_time, created_at) VALUES (:id, :class_id, :slot_id, :date, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, occ); err != nil {
		return fmt.Errorf("create class occurrence: %w", err)
	}
	return nil
}

// ListWeekByClass returns the class occurrences in a 7-day window with
// derived occupancy.
func (r *OccurrenceRepository) ListWeekByClass(ctx context.Context, classID string, weekStart time.Time) ([]models.OccurrenceWithOccupancy, error) {
	start := models.DateOnly(weekStart)
	end := start.AddDate(0, 0, 7)
	const query = `
		SELECT o.id, o.class_id, o.slot_id, o.date, o.start_time, o.end_time, o.created_at,
		       c.capacity,
		       (SELECT COUNT(*) FROM class_reservations cr WHERE cr.occurrence_id = o.id AND cr.state <> $4) AS occupied
		FROM class_occurrences o
		JOIN classes c ON c.id = o.class_id
		WHERE o.class_id = $1 AND o.date >= $2 AND o.date < $3
		ORDER BY o.date ASC, o.start_time ASC`
	var list []models.OccurrenceWithOccupancy
	if err := r.db.SelectContext(ctx, &list, query, classID, start, end, models.ReservationCancelled); err != nil {
		return nil, fmt.Errorf("list week occurrences by class: %w", err)
	}
	return list, nil
}
