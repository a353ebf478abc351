package service

import (
	"context"
	"fmt"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/logger"
	"palanquee-backend/internal/repository"
)

type carpoolService struct {
	carpoolRepo repository.CarpoolRepository
	outingRepo  repository.OutingRepository
	memberRepo  repository.MemberRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewCarpoolService(
	carpoolRepo repository.CarpoolRepository,
	outingRepo repository.OutingRepository,
	memberRepo repository.MemberRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) CarpoolService {
	return &carpoolService{
		carpoolRepo: carpoolRepo,
		outingRepo:  outingRepo,
		memberRepo:  memberRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *carpoolService) CreateCarpool(ctx context.Context, driverID int64, role domain.MemberRole, cp *domain.Carpool) error {
	outing, err := s.outingRepo.GetByID(ctx, cp.OutingID)
	if err != nil {
		return err
	}
	if !outing.VisibleTo(role) {
		return domain.ErrNotFound
	}
	if outing.Status != domain.OutingStatusActive {
		return fmt.Errorf("outing is archived: %w", domain.ErrInvalidInput)
	}
	if !outing.CarpoolEnabled {
		return fmt.Errorf("carpooling is disabled for this outing: %w", domain.ErrInvalidInput)
	}
	if cp.AvailableSeats < 1 {
		return fmt.Errorf("a carpool needs at least one seat: %w", domain.ErrInvalidInput)
	}

	// A driver may offer more seats than the outing has open slots; carpool
	// capacity is independent of outing capacity.
	cp.DriverID = driverID
	return s.carpoolRepo.Create(ctx, cp)
}

func (s *carpoolService) UpdateCarpool(ctx context.Context, actorID int64, role domain.MemberRole, cp *domain.Carpool) error {
	existing, err := s.carpoolRepo.GetByID(ctx, cp.ID)
	if err != nil {
		return err
	}
	if existing.DriverID != actorID && role != domain.MemberRoleAdmin {
		return domain.ErrForbidden
	}
	if cp.AvailableSeats < 1 {
		return fmt.Errorf("a carpool needs at least one seat: %w", domain.ErrInvalidInput)
	}
	if cp.AvailableSeats < existing.PassengerCount {
		return fmt.Errorf("cannot reduce seats below the %d booked passengers: %w", existing.PassengerCount, domain.ErrInvalidInput)
	}
	cp.OutingID = existing.OutingID
	cp.DriverID = existing.DriverID
	return s.carpoolRepo.Update(ctx, cp)
}

// DeleteCarpool removes the ride and its bookings, then tells every displaced
// passenger. The delete is durable even when a notice fails to send.
func (s *carpoolService) DeleteCarpool(ctx context.Context, actorID int64, role domain.MemberRole, carpoolID int64) error {
	cp, err := s.carpoolRepo.GetByID(ctx, carpoolID)
	if err != nil {
		return err
	}
	if cp.DriverID != actorID && role != domain.MemberRoleAdmin {
		return domain.ErrForbidden
	}

	passengers, err := s.carpoolRepo.ListPassengers(ctx, carpoolID)
	if err != nil {
		return err
	}

	if err := s.carpoolRepo.Delete(ctx, carpoolID); err != nil {
		return err
	}

	outing, err := s.outingRepo.GetByID(ctx, cp.OutingID)
	if err != nil {
		logger.Warn("Carpool deletion fan-out skipped, outing lookup failed", "carpool_id", carpoolID, "error", err)
		return nil
	}

	departure := cp.DepartureTime.Format("Mon 2 Jan 2006 15:04")
	for _, p := range passengers {
		member, err := s.memberRepo.GetByID(ctx, p.MemberID)
		if err != nil {
			logger.Warn("Displaced passenger lookup failed", "member_id", p.MemberID, "error", err)
			continue
		}
		if err := s.emailSvc.SendCarpoolSeatLost(ctx, member.Email, member.Name, outing.Title, departure); err != nil {
			logger.Warn("Carpool displacement email failed", "member_id", member.ID, "carpool_id", carpoolID, "error", err)
		}
		note := &domain.Notification{
			MemberID: member.ID,
			Title:    "Carpool cancelled",
			Message:  fmt.Sprintf("Your ride for %s was cancelled by the driver", outing.Title),
			Attributes: map[string]string{
				"type":      "CARPOOL_DELETED",
				"outing_id": fmt.Sprintf("%d", outing.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Warn("Carpool displacement notification write failed", "member_id", member.ID, "error", err)
		}
	}
	return nil
}

func (s *carpoolService) BookSeat(ctx context.Context, memberID int64, role domain.MemberRole, carpoolID int64) (*domain.CarpoolPassenger, error) {
	cp, err := s.carpoolRepo.GetByID(ctx, carpoolID)
	if err != nil {
		return nil, err
	}
	outing, err := s.outingRepo.GetByID(ctx, cp.OutingID)
	if err != nil {
		return nil, err
	}
	if !outing.VisibleTo(role) {
		return nil, domain.ErrNotFound
	}
	if outing.Status != domain.OutingStatusActive {
		return nil, fmt.Errorf("outing is archived: %w", domain.ErrInvalidInput)
	}
	if cp.DriverID == memberID {
		return nil, fmt.Errorf("drivers do not book their own carpool: %w", domain.ErrInvalidInput)
	}

	// Seat ceiling and per-outing uniqueness are re-validated inside the
	// repository transaction.
	return s.carpoolRepo.BookSeat(ctx, carpoolID, memberID)
}

func (s *carpoolService) CancelSeat(ctx context.Context, memberID, carpoolID int64) error {
	return s.carpoolRepo.CancelSeat(ctx, carpoolID, memberID)
}

func (s *carpoolService) ListByOuting(ctx context.Context, role domain.MemberRole, outingID int64) ([]domain.Carpool, error) {
	outing, err := s.outingRepo.GetByID(ctx, outingID)
	if err != nil {
		return nil, err
	}
	if !outing.VisibleTo(role) {
		return nil, domain.ErrNotFound
	}
	return s.carpoolRepo.ListByOuting(ctx, outingID)
}

func (s *carpoolService) ListPassengers(ctx context.Context, carpoolID int64) ([]domain.CarpoolPassenger, error) {
	return s.carpoolRepo.ListPassengers(ctx, carpoolID)
}
