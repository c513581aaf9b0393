package models

import "time"

// ExchangeState tracks a shift exchange negotiation. PENDING resolves to
// exactly one of APPROVED or REJECTED; both are terminal.
type ExchangeState string

const (
	ExchangePending  ExchangeState = "PENDING"
	ExchangeApproved ExchangeState = "APPROVED"
	ExchangeRejected ExchangeState = "REJECTED"
)

// ShiftExchangeRequest is a two-party negotiated swap of reception shift
// ownership. Created by the origin owner, resolved only by the destination
// owner. Approval swaps both shifts' owners atomically.
type ShiftExchangeRequest struct {
	ID            string        `db:"id" json:"id"`
	OriginShiftID string        `db:"origin_shift_id" json:"origin_shift_id"`
	DestShiftID   string        `db:"dest_shift_id" json:"dest_shift_id"`
	OriginOwnerID string        `db:"origin_owner_id" json:"origin_owner_id"`
	DestOwnerID   string        `db:"dest_owner_id" json:"dest_owner_id"`
	State         ExchangeState `db:"state" json:"state"`
	ResolvedAt    *time.Time    `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
