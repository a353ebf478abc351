package repository

import (
	"context"
	"time"

	"palanquee-backend/internal/domain"
)

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Member, int32, error)
}

// OutingFilter narrows outing listings. Now is the explicit clock used for
// the past/upcoming split so callers (and tests) control time.
type OutingFilter struct {
	Now            time.Time
	Upcoming       bool
	Past           bool
	Type           domain.OutingType
	IncludeStaff   bool
	IncludeArchive bool
}

type OutingRepository interface {
	Create(ctx context.Context, outing *domain.Outing) error
	GetByID(ctx context.Context, id int64) (*domain.Outing, error)
	Update(ctx context.Context, outing *domain.Outing) error
	SetStatus(ctx context.Context, id int64, status domain.OutingStatus) error
	List(ctx context.Context, filter OutingFilter, page, pageSize int32) ([]domain.Outing, int32, error)
}

type ReservationRepository interface {
	// Register decides confirmed vs. waitlisted against the outing's cap
	// inside one transaction that locks the outing row, so two concurrent
	// registrations near the last seat cannot both confirm.
	Register(ctx context.Context, outingID, memberID int64, intent domain.CarpoolIntent, seatsOffered int32) (*domain.Reservation, error)

	// CancelAndPromote cancels the member's active reservation and, when it
	// was confirmed, promotes the oldest waitlisted reservation in the same
	// transaction. The promoted reservation is nil when no promotion happened.
	CancelAndPromote(ctx context.Context, outingID, memberID int64) (cancelled, promoted *domain.Reservation, err error)

	GetActive(ctx context.Context, outingID, memberID int64) (*domain.Reservation, error)
	SetPresence(ctx context.Context, outingID, memberID int64, present bool) error
	ListByOuting(ctx context.Context, outingID int64) ([]domain.Reservation, error)
	ListByMember(ctx context.Context, memberID int64, includeCancelled bool) ([]domain.Reservation, error)
	CountConfirmed(ctx context.Context, outingID int64) (int32, error)
}

type CarpoolRepository interface {
	Create(ctx context.Context, carpool *domain.Carpool) error
	GetByID(ctx context.Context, id int64) (*domain.Carpool, error)
	Update(ctx context.Context, carpool *domain.Carpool) error
	// Delete removes the carpool and cascades its passenger bookings.
	Delete(ctx context.Context, id int64) error
	ListByOuting(ctx context.Context, outingID int64) ([]domain.Carpool, error)

	// BookSeat enforces the seat ceiling and the one-booking-per-outing rule
	// inside one transaction that locks the carpool row.
	BookSeat(ctx context.Context, carpoolID, memberID int64) (*domain.CarpoolPassenger, error)
	CancelSeat(ctx context.Context, carpoolID, memberID int64) error
	ListPassengers(ctx context.Context, carpoolID int64) ([]domain.CarpoolPassenger, error)
}

type GearRepository interface {
	CreateItem(ctx context.Context, item *domain.GearItem) error
	GetItemByID(ctx context.Context, id int64) (*domain.GearItem, error)
	UpdateItem(ctx context.Context, item *domain.GearItem) error
	ListItems(ctx context.Context, status domain.GearStatus, page, pageSize int32) ([]domain.GearItem, int32, error)

	// CreateLoan marks the item LOANED and opens the loan in one transaction.
	CreateLoan(ctx context.Context, loan *domain.GearLoan) error
	// CloseLoan marks the loan RETURNED and frees the item in one transaction.
	CloseLoan(ctx context.Context, loanID int64, returnedOn time.Time) (*domain.GearLoan, error)
	ListLoansByMember(ctx context.Context, memberID int64, openOnly bool) ([]domain.GearLoan, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, memberID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, memberID int64) error
}
