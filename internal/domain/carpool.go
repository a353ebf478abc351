package domain

import "time"

// Carpool is a ride offered by a driver for one outing. Its seat capacity is
// independent of the outing's own participant cap.
type Carpool struct {
	ID             int64     `json:"id"`
	OutingID       int64     `json:"outing_id"`
	DriverID       int64     `json:"driver_id"`
	DepartureTime  time.Time `json:"departure_time"`
	MeetingPoint   string    `json:"meeting_point"`
	AvailableSeats int32     `json:"available_seats"`
	Notes          string    `json:"notes"`
	MapLink        string    `json:"map_link"`
	PassengerCount int32     `json:"passenger_count"`
	CreatedOn      string    `json:"created_on"`
	UpdatedOn      string    `json:"updated_on"`
}

// CarpoolPassenger books one seat in one carpool. A member holds at most one
// passenger booking per outing across all of that outing's carpools.
type CarpoolPassenger struct {
	ID        int64  `json:"id"`
	CarpoolID int64  `json:"carpool_id"`
	MemberID  int64  `json:"member_id"`
	CreatedOn string `json:"created_on"`
}
