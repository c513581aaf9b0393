package models

import "time"

// Class is a recurring group class taught by one trainer.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassOccurrence is one concrete calendar-dated realization of a class
// slot. Occupancy is derived from non-cancelled reservations, never stored
// as an independent counter.
type ClassOccurrence struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	SlotID    string    `db:"slot_id" json:"slot_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   TimeOfDay `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OccurrenceWithOccupancy pairs an occurrence with its derived seat count.
type OccurrenceWithOccupancy struct {
	ClassOccurrence
	Occupied int `db:"occupied" json:"occupied"`
	Capacity int `db:"capacity" json:"capacity"`
}

// ReservationState tracks the lifecycle of a seat reservation.
type ReservationState string

const (
	ReservationReserved  ReservationState = "RESERVED"
	ReservationAttended  ReservationState = "ATTENDED"
	ReservationNoShow    ReservationState = "NO_SHOW"
	ReservationCancelled ReservationState = "CANCELLED"
)

// ClassReservation holds one member's seat on one occurrence.
type ClassReservation struct {
	ID           string           `db:"id" json:"id"`
	OccurrenceID string           `db:"occurrence_id" json:"occurrence_id"`
	MemberID     string           `db:"member_id" json:"member_id"`
	State        ReservationState `db:"state" json:"state"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}
