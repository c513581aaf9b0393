package models

import "time"

// MembershipState is the lifecycle state of a membership row.
type MembershipState string

const (
	MembershipActive    MembershipState = "ACTIVE"
	MembershipPaused    MembershipState = "PAUSED"
	MembershipExpired   MembershipState = "EXPIRED"
	MembershipSuspended MembershipState = "SUSPENDED"
	MembershipCancelled MembershipState = "CANCELLED"
)

// Terminal reports whether the state admits no further transitions. A new
// plan assignment always creates a fresh row rather than reviving one.
func (s MembershipState) Terminal() bool {
	return s == MembershipExpired || s == MembershipCancelled
}

// Membership ties a member to a plan for a date window. At most one ACTIVE or
// PAUSED row may exist per member; assignment demotes the previous ACTIVE row
// to EXPIRED before inserting.
type Membership struct {
	ID                  string          `db:"id" json:"id"`
	MemberID            string          `db:"member_id" json:"member_id"`
	PlanID              string          `db:"plan_id" json:"plan_id"`
	StartDate           time.Time       `db:"start_date" json:"start_date"`
	ExpiryDate          time.Time       `db:"expiry_date" json:"expiry_date"`
	State               MembershipState `db:"state" json:"state"`
	PausedDaysRemaining int             `db:"paused_days_remaining" json:"paused_days_remaining"`
	PauseReason         *string         `db:"pause_reason" json:"pause_reason,omitempty"`
	CancelReason        *string         `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// Plan is a catalog entry describing membership duration and price.
type Plan struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	Price        int64     `db:"price" json:"price"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Payment records the charge paired 1:1 with a membership assignment. The
// amount is supplied by the plan catalog lookup.
type Payment struct {
	ID           string    `db:"id" json:"id"`
	MemberID     string    `db:"member_id" json:"member_id"`
	MembershipID string    `db:"membership_id" json:"membership_id"`
	Amount       int64     `db:"amount" json:"amount"`
	Method       string    `db:"method" json:"method"`
	PaidAt       time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
