package domain

import "errors"

// Sentinel errors surfaced to callers. Services wrap these with context;
// the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrNotFound covers missing and soft-deleted records alike.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateReservation: the member already holds a confirmed or
	// waitlisted reservation for the outing.
	ErrDuplicateReservation = errors.New("member already registered for this outing")

	// ErrDuplicateBooking: the member already booked a seat in another
	// carpool of the same outing.
	ErrDuplicateBooking = errors.New("member already booked a carpool seat for this outing")

	// ErrCarpoolFull: all offered seats are taken. Carpools have no
	// waitlist; a full carpool simply rejects.
	ErrCarpoolFull = errors.New("carpool has no seats left")

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
)
