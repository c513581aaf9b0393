package models

// Notification is the abstract event handed to the notification sink after a
// state transition. Delivery is fire-and-forget; failures never roll back
// the transition that produced the event.
type Notification struct {
	Audience string `json:"audience"`
	Event    string `json:"event"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// ReconciliationReport summarises the rows mutated by one sweep, per rule.
type ReconciliationReport struct {
	ExpiredMemberships int `json:"expired_memberships"`
	DelinquentMembers  int `json:"delinquent_members"`
	InactiveMembers    int `json:"inactive_members"`
	ReservationNoShows int `json:"reservation_no_shows"`
	SessionNoShows     int `json:"session_no_shows"`
}

// Mutations returns the total number of rows changed by the sweep. A second
// run with no intervening writes reports zero.
func (r ReconciliationReport) Mutations() int {
	return r.ExpiredMemberships + r.DelinquentMembers + r.InactiveMembers + r.ReservationNoShows + r.SessionNoShows
}
