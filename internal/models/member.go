package models

import "time"

// MemberStatus is the derived account standing of a member. ACTIVE requires a
// current membership; DELINQUENT and INACTIVE are advanced by the
// reconciliation sweep.
type MemberStatus string

const (
	MemberStatusActive     MemberStatus = "ACTIVE"
	MemberStatusDelinquent MemberStatus = "DELINQUENT"
	MemberStatusInactive   MemberStatus = "INACTIVE"
)

// Member models a gym member account.
type Member struct {
	ID        string       `db:"id" json:"id"`
	FullName  string       `db:"full_name" json:"full_name"`
	Email     string       `db:"email" json:"email"`
	Phone     *string      `db:"phone" json:"phone,omitempty"`
	Status    MemberStatus `db:"status" json:"status"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// Trainer models a staff trainer who owns class slots, personal sessions and
// reception shifts.
type Trainer struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
