package domain

type ReservationStatus string

const (
	ReservationStatusConfirmed  ReservationStatus = "CONFIRMED"
	ReservationStatusWaitlisted ReservationStatus = "WAITLISTED"
	ReservationStatusCancelled  ReservationStatus = "CANCELLED"
)

type CarpoolIntent string

const (
	CarpoolIntentNone      CarpoolIntent = "NONE"
	CarpoolIntentDriver    CarpoolIntent = "DRIVER"
	CarpoolIntentPassenger CarpoolIntent = "PASSENGER"
)

// Reservation is a member's claim on one seat of one outing. A member holds
// at most one non-cancelled reservation per outing; cancellation is terminal
// and re-registering inserts a new row, so the table reads as an append-only
// history of claims.
type Reservation struct {
	ID            int64             `json:"id"`
	OutingID      int64             `json:"outing_id"`
	MemberID      int64             `json:"member_id"`
	Status        ReservationStatus `json:"status"`
	CarpoolIntent CarpoolIntent     `json:"carpool_intent"`
	SeatsOffered  int32             `json:"seats_offered"`
	Present       bool              `json:"present"`
	CancelledOn   *string           `json:"cancelled_on,omitempty"`
	CreatedOn     string            `json:"created_on"`
	UpdatedOn     string            `json:"updated_on"`
}

// Active reports whether the reservation still claims a seat (confirmed)
// or a place in the queue (waitlisted).
func (r *Reservation) Active() bool {
	return r.Status == ReservationStatusConfirmed || r.Status == ReservationStatusWaitlisted
}
