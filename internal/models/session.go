package models

import "time"

// SessionState tracks the lifecycle of a one-off personal session.
type SessionState string

const (
	SessionScheduled SessionState = "SCHEDULED"
	SessionCompleted SessionState = "COMPLETED"
	SessionCancelled SessionState = "CANCELLED"
	SessionNoShow    SessionState = "NO_SHOW"
)

// PersonalSession is a one-off training appointment between a trainer and a
// member. Unlike class slots it is not expanded from a recurrence rule.
type PersonalSession struct {
	ID        string       `db:"id" json:"id"`
	TrainerID string       `db:"trainer_id" json:"trainer_id"`
	MemberID  string       `db:"member_id" json:"member_id"`
	Date      time.Time    `db:"date" json:"date"`
	StartTime TimeOfDay    `db:"start_time" json:"start_time"`
	EndTime   TimeOfDay    `db:"end_time" json:"end_time"`
	State     SessionState `db:"state" json:"state"`
	Notes     *string      `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// BookingStatus tags the outcome of a session booking attempt. Soft
// conflicts are a confirmation request, not an error: the caller re-submits
// with the override flag to force the booking.
type BookingStatus string

const (
	BookingBooked       BookingStatus = "BOOKED"
	BookingSoftConflict BookingStatus = "SOFT_CONFLICT"
)

// BookingResult is the tagged result of a booking attempt. Session is set
// only when Status is BOOKED; SoftConflicts carries the count of overlapping
// sessions otherwise.
type BookingResult struct {
	Status        BookingStatus    `json:"status"`
	Session       *PersonalSession `json:"session,omitempty"`
	SoftConflicts int              `json:"soft_conflicts,omitempty"`
}
