package models

import "time"

// SlotKind distinguishes the two recurring weekly commitments a trainer can
// own: group classes and reception desk shifts.
type SlotKind string

const (
	SlotKindClass     SlotKind = "CLASS"
	SlotKindReception SlotKind = "RECEPTION"
)

// ScheduleSlot is one weekday row of a recurring rule. A class rule spanning
// three weekdays is stored as three slot rows sharing a class id. Slots are
// deactivated on removal, never hard-deleted, so conflict checks only look at
// active rows.
type ScheduleSlot struct {
	ID         string    `db:"id" json:"id"`
	Kind       SlotKind  `db:"kind" json:"kind"`
	OwnerID    string    `db:"owner_id" json:"owner_id"`
	ClassID    *string   `db:"class_id" json:"class_id,omitempty"`
	Weekday    int       `db:"weekday" json:"weekday"`
	StartTime  TimeOfDay `db:"start_time" json:"start_time"`
	EndTime    TimeOfDay `db:"end_time" json:"end_time"`
	ActiveFrom time.Time `db:"active_from" json:"active_from"`
	ActiveTo   time.Time `db:"active_to" json:"active_to"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// SlotConflict describes an existing slot that blocks a proposed rule.
type SlotConflict struct {
	SlotID    string    `json:"slot_id"`
	OwnerID   string    `json:"owner_id"`
	ClassID   *string   `json:"class_id,omitempty"`
	Weekday   int       `json:"weekday"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
}

// SlotConflictError is returned when a proposed rule collides with an active
// slot of the same owner.
type SlotConflictError struct {
	Weekday  int          `json:"weekday"`
	Message  string       `json:"message"`
	Conflict SlotConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *SlotConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
