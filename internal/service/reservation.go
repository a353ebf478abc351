package service

import (
	"context"
	"fmt"
	"time"

	"palanquee-backend/internal/cache"
	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/logger"
	"palanquee-backend/internal/repository"
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	outingRepo      repository.OutingRepository
	memberRepo      repository.MemberRepository
	noteRepo        repository.NotificationRepository
	emailSvc        EmailService
	outingCache     cache.OutingCache
	now             func() time.Time
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	outingRepo repository.OutingRepository,
	memberRepo repository.MemberRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	outingCache cache.OutingCache,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		outingRepo:      outingRepo,
		memberRepo:      memberRepo,
		noteRepo:        noteRepo,
		emailSvc:        emailSvc,
		outingCache:     outingCache,
		now:             time.Now,
	}
}

func (s *reservationService) Register(ctx context.Context, memberID int64, role domain.MemberRole, outingID int64, intent domain.CarpoolIntent, seatsOffered int32) (*domain.Reservation, error) {
	outing, err := s.outingRepo.GetByID(ctx, outingID)
	if err != nil {
		return nil, err
	}
	if !outing.VisibleTo(role) {
		// Staff-only outings stay invisible to regular members.
		return nil, domain.ErrNotFound
	}
	if outing.Status != domain.OutingStatusActive {
		return nil, fmt.Errorf("outing is archived: %w", domain.ErrInvalidInput)
	}
	if !outing.DateTime.After(s.now()) {
		return nil, fmt.Errorf("outing has already started: %w", domain.ErrInvalidInput)
	}
	if intent == domain.CarpoolIntentDriver && seatsOffered < 1 {
		return nil, fmt.Errorf("a driver must offer at least one seat: %w", domain.ErrInvalidInput)
	}
	if intent != domain.CarpoolIntentDriver {
		seatsOffered = 0
	}

	// Capacity decision happens inside the repository transaction; any
	// client-side count the UI showed before submitting was only an estimate.
	reservation, err := s.reservationRepo.Register(ctx, outingID, memberID, intent, seatsOffered)
	if err != nil {
		return nil, err
	}

	s.outingCache.Invalidate(ctx)
	s.notifyRegistration(ctx, reservation, outing)
	return reservation, nil
}

func (s *reservationService) Cancel(ctx context.Context, memberID, outingID int64) error {
	outing, err := s.outingRepo.GetByID(ctx, outingID)
	if err != nil {
		return err
	}

	cancelled, promoted, err := s.reservationRepo.CancelAndPromote(ctx, outingID, memberID)
	if err != nil {
		return err
	}

	s.outingCache.Invalidate(ctx)

	if member, err := s.memberRepo.GetByID(ctx, cancelled.MemberID); err != nil {
		logger.Warn("Cancellation email skipped, member lookup failed", "member_id", cancelled.MemberID, "outing_id", outingID, "error", err)
	} else if err := s.emailSvc.SendCancellationConfirmation(ctx, member.Email, member.Name, outing.Title); err != nil {
		logger.Warn("Cancellation email delivery failed", "member_id", member.ID, "outing_id", outingID, "error", err)
	}

	if promoted != nil {
		s.notifyPromotion(ctx, promoted, outing)
	}
	return nil
}

func (s *reservationService) MarkPresence(ctx context.Context, actorID int64, role domain.MemberRole, outingID, memberID int64, present bool) error {
	outing, err := s.outingRepo.GetByID(ctx, outingID)
	if err != nil {
		return err
	}
	if !role.IsStaff() && actorID != outing.OrganizerID {
		return domain.ErrForbidden
	}
	return s.reservationRepo.SetPresence(ctx, outingID, memberID, present)
}

func (s *reservationService) ListRoster(ctx context.Context, role domain.MemberRole, outingID int64) ([]domain.Reservation, error) {
	outing, err := s.outingRepo.GetByID(ctx, outingID)
	if err != nil {
		return nil, err
	}
	if !outing.VisibleTo(role) {
		return nil, domain.ErrNotFound
	}
	return s.reservationRepo.ListByOuting(ctx, outingID)
}

func (s *reservationService) ListMine(ctx context.Context, memberID int64, includeCancelled bool) ([]domain.Reservation, error) {
	return s.reservationRepo.ListByMember(ctx, memberID, includeCancelled)
}

// notifyRegistration sends the "registration" or "waitlist" template matching
// the assigned status. Delivery failures are logged and never undo the
// reservation.
func (s *reservationService) notifyRegistration(ctx context.Context, reservation *domain.Reservation, outing *domain.Outing) {
	member, err := s.memberRepo.GetByID(ctx, reservation.MemberID)
	if err != nil {
		logger.Warn("Registration notification skipped, member lookup failed", "member_id", reservation.MemberID, "error", err)
		return
	}

	outingDate := outing.DateTime.Format("Mon 2 Jan 2006 15:04")
	var title, message string
	if reservation.Status == domain.ReservationStatusConfirmed {
		err = s.emailSvc.SendRegistrationConfirmed(ctx, member.Email, member.Name, outing.Title, outingDate)
		title = "Registration confirmed"
		message = fmt.Sprintf("You're in for %s on %s", outing.Title, outingDate)
	} else {
		err = s.emailSvc.SendWaitlisted(ctx, member.Email, member.Name, outing.Title, outingDate)
		title = "Added to waitlist"
		message = fmt.Sprintf("%s is full, you're on the waitlist", outing.Title)
	}
	if err != nil {
		logger.Warn("Registration email delivery failed", "member_id", member.ID, "outing_id", outing.ID, "error", err)
	}

	note := &domain.Notification{
		MemberID: member.ID,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":           "RESERVATION_" + string(reservation.Status),
			"outing_id":      fmt.Sprintf("%d", outing.ID),
			"reservation_id": fmt.Sprintf("%d", reservation.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Registration notification write failed", "member_id", member.ID, "error", err)
	}
}

func (s *reservationService) notifyPromotion(ctx context.Context, promoted *domain.Reservation, outing *domain.Outing) {
	member, err := s.memberRepo.GetByID(ctx, promoted.MemberID)
	if err != nil {
		logger.Warn("Promotion notification skipped, member lookup failed", "member_id", promoted.MemberID, "error", err)
		return
	}

	outingDate := outing.DateTime.Format("Mon 2 Jan 2006 15:04")
	if err := s.emailSvc.SendWaitlistPromotion(ctx, member.Email, member.Name, outing.Title, outingDate); err != nil {
		logger.Warn("Promotion email delivery failed", "member_id", member.ID, "outing_id", outing.ID, "error", err)
	}

	note := &domain.Notification{
		MemberID: member.ID,
		Title:    "Spot confirmed",
		Message:  fmt.Sprintf("A spot freed up: you're confirmed for %s on %s", outing.Title, outingDate),
		Attributes: map[string]string{
			"type":           "RESERVATION_PROMOTED",
			"outing_id":      fmt.Sprintf("%d", outing.ID),
			"reservation_id": fmt.Sprintf("%d", promoted.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Promotion notification write failed", "member_id", member.ID, "error", err)
	}
}
