package service

import (
	"context"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password, divingLevel string) (*domain.Member, string, string, error) // member, access, refresh
	Login(ctx context.Context, email, password string) (*domain.Member, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type MemberService interface {
	GetProfile(ctx context.Context, memberID int64) (*domain.Member, error)
	UpdateProfile(ctx context.Context, memberID int64, name, phone, divingLevel string, medicalCertUntil *string) error
	ListMembers(ctx context.Context, page, pageSize int32) ([]domain.Member, int32, error)
	SetRole(ctx context.Context, actorRole domain.MemberRole, memberID int64, role domain.MemberRole) error
}

type OutingService interface {
	CreateOuting(ctx context.Context, organizerID int64, role domain.MemberRole, outing *domain.Outing) error
	GetOuting(ctx context.Context, role domain.MemberRole, id int64) (*domain.Outing, error)
	UpdateOuting(ctx context.Context, actorID int64, role domain.MemberRole, outing *domain.Outing) error
	ArchiveOuting(ctx context.Context, actorID int64, role domain.MemberRole, id int64) error
	// CancelOuting soft-deletes the outing and fans out a notice to every
	// active registrant. Organizer or admin only.
	CancelOuting(ctx context.Context, actorID int64, role domain.MemberRole, id int64, reason string) error
	ListOutings(ctx context.Context, role domain.MemberRole, filter repository.OutingFilter, page, pageSize int32) ([]domain.Outing, int32, error)
}

type ReservationService interface {
	// Register claims a seat; the returned reservation's status tells the
	// caller whether they were seated or queued.
	Register(ctx context.Context, memberID int64, role domain.MemberRole, outingID int64, intent domain.CarpoolIntent, seatsOffered int32) (*domain.Reservation, error)
	Cancel(ctx context.Context, memberID, outingID int64) error
	MarkPresence(ctx context.Context, actorID int64, role domain.MemberRole, outingID, memberID int64, present bool) error
	ListRoster(ctx context.Context, role domain.MemberRole, outingID int64) ([]domain.Reservation, error)
	ListMine(ctx context.Context, memberID int64, includeCancelled bool) ([]domain.Reservation, error)
}

type CarpoolService interface {
	CreateCarpool(ctx context.Context, driverID int64, role domain.MemberRole, carpool *domain.Carpool) error
	UpdateCarpool(ctx context.Context, actorID int64, role domain.MemberRole, carpool *domain.Carpool) error
	// DeleteCarpool cascades passenger bookings and notifies each displaced
	// passenger.
	DeleteCarpool(ctx context.Context, actorID int64, role domain.MemberRole, carpoolID int64) error
	BookSeat(ctx context.Context, memberID int64, role domain.MemberRole, carpoolID int64) (*domain.CarpoolPassenger, error)
	CancelSeat(ctx context.Context, memberID, carpoolID int64) error
	ListByOuting(ctx context.Context, role domain.MemberRole, outingID int64) ([]domain.Carpool, error)
	ListPassengers(ctx context.Context, carpoolID int64) ([]domain.CarpoolPassenger, error)
}

type GearService interface {
	AddItem(ctx context.Context, role domain.MemberRole, item *domain.GearItem) error
	UpdateItem(ctx context.Context, role domain.MemberRole, item *domain.GearItem) error
	ListItems(ctx context.Context, status domain.GearStatus, page, pageSize int32) ([]domain.GearItem, int32, error)
	LoanItem(ctx context.Context, role domain.MemberRole, itemID, memberID int64, dueOn time.Time) (*domain.GearLoan, error)
	ReturnItem(ctx context.Context, role domain.MemberRole, loanID int64) (*domain.GearLoan, error)
	ListMemberLoans(ctx context.Context, memberID int64, openOnly bool) ([]domain.GearLoan, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, memberID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, memberID, notificationID int64) error
}

// EmailService is the transactional mail contract. Every send is best-effort:
// callers log failures and never roll back the mutation that triggered them.
type EmailService interface {
	SendRegistrationConfirmed(ctx context.Context, email, name, outingTitle, outingDate string) error
	SendWaitlisted(ctx context.Context, email, name, outingTitle, outingDate string) error
	SendWaitlistPromotion(ctx context.Context, email, name, outingTitle, outingDate string) error
	SendCancellationConfirmation(ctx context.Context, email, name, outingTitle string) error
	SendCarpoolSeatLost(ctx context.Context, email, name, outingTitle, departureTime string) error
	SendOutingCancelledNotice(ctx context.Context, email, name, outingTitle, reason string) error
	SendOutingReminder(ctx context.Context, email, name, outingTitle, outingDate, location string) error
	SendGearOverdueNotice(ctx context.Context, email, name, itemKind, tag, dueOn string) error
}
