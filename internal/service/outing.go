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

type outingService struct {
	outingRepo      repository.OutingRepository
	reservationRepo repository.ReservationRepository
	memberRepo      repository.MemberRepository
	noteRepo        repository.NotificationRepository
	emailSvc        EmailService
	outingCache     cache.OutingCache
}

func NewOutingService(
	outingRepo repository.OutingRepository,
	reservationRepo repository.ReservationRepository,
	memberRepo repository.MemberRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	outingCache cache.OutingCache,
) OutingService {
	return &outingService{
		outingRepo:      outingRepo,
		reservationRepo: reservationRepo,
		memberRepo:      memberRepo,
		noteRepo:        noteRepo,
		emailSvc:        emailSvc,
		outingCache:     outingCache,
	}
}

func (s *outingService) CreateOuting(ctx context.Context, organizerID int64, role domain.MemberRole, outing *domain.Outing) error {
	if !role.IsStaff() {
		return domain.ErrForbidden
	}
	if outing.MaxParticipants < 1 {
		return fmt.Errorf("max participants must be at least 1: %w", domain.ErrInvalidInput)
	}
	outing.OrganizerID = organizerID
	if err := s.outingRepo.Create(ctx, outing); err != nil {
		return err
	}
	s.outingCache.Invalidate(ctx)
	return nil
}

func (s *outingService) GetOuting(ctx context.Context, role domain.MemberRole, id int64) (*domain.Outing, error) {
	outing, err := s.outingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !outing.VisibleTo(role) {
		return nil, domain.ErrNotFound
	}
	return outing, nil
}

func (s *outingService) UpdateOuting(ctx context.Context, actorID int64, role domain.MemberRole, outing *domain.Outing) error {
	existing, err := s.outingRepo.GetByID(ctx, outing.ID)
	if err != nil {
		return err
	}
	if existing.OrganizerID != actorID && role != domain.MemberRoleAdmin {
		return domain.ErrForbidden
	}
	if outing.MaxParticipants < 1 {
		return fmt.Errorf("max participants must be at least 1: %w", domain.ErrInvalidInput)
	}
	// Lowering the cap never demotes already-confirmed reservations; it only
	// stops new confirmations.
	if err := s.outingRepo.Update(ctx, outing); err != nil {
		return err
	}
	s.outingCache.Invalidate(ctx)
	return nil
}

func (s *outingService) ArchiveOuting(ctx context.Context, actorID int64, role domain.MemberRole, id int64) error {
	existing, err := s.outingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OrganizerID != actorID && role != domain.MemberRoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.outingRepo.SetStatus(ctx, id, domain.OutingStatusArchived); err != nil {
		return err
	}
	s.outingCache.Invalidate(ctx)
	return nil
}

// CancelOuting soft-deletes the outing, then notifies every member who still
// held a confirmed or waitlisted reservation. Only staff may broadcast.
func (s *outingService) CancelOuting(ctx context.Context, actorID int64, role domain.MemberRole, id int64, reason string) error {
	if !role.IsStaff() {
		return domain.ErrForbidden
	}
	outing, err := s.outingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if outing.OrganizerID != actorID && role != domain.MemberRoleAdmin {
		return domain.ErrForbidden
	}

	registrants, err := s.reservationRepo.ListByOuting(ctx, id)
	if err != nil {
		return err
	}

	if err := s.outingRepo.SetStatus(ctx, id, domain.OutingStatusDeleted); err != nil {
		return err
	}
	s.outingCache.Invalidate(ctx)

	for _, reservation := range registrants {
		member, err := s.memberRepo.GetByID(ctx, reservation.MemberID)
		if err != nil {
			logger.Warn("Outing cancellation fan-out lookup failed", "member_id", reservation.MemberID, "error", err)
			continue
		}
		if err := s.emailSvc.SendOutingCancelledNotice(ctx, member.Email, member.Name, outing.Title, reason); err != nil {
			logger.Warn("Outing cancellation email failed", "member_id", member.ID, "outing_id", id, "error", err)
		}
		note := &domain.Notification{
			MemberID: member.ID,
			Title:    "Outing cancelled",
			Message:  fmt.Sprintf("%s has been cancelled", outing.Title),
			Attributes: map[string]string{
				"type":      "OUTING_CANCELLED",
				"outing_id": fmt.Sprintf("%d", id),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Warn("Outing cancellation notification write failed", "member_id", member.ID, "error", err)
		}
	}
	return nil
}

func (s *outingService) ListOutings(ctx context.Context, role domain.MemberRole, filter repository.OutingFilter, page, pageSize int32) ([]domain.Outing, int32, error) {
	filter.IncludeStaff = role.IsStaff()

	key := listCacheKey(filter, page, pageSize)
	if outings, total, ok := s.outingCache.GetList(ctx, key); ok {
		return outings, total, nil
	}

	outings, total, err := s.outingRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	s.outingCache.SetList(ctx, key, outings, total)
	return outings, total, nil
}

func listCacheKey(filter repository.OutingFilter, page, pageSize int32) string {
	// The clock is truncated to the minute so near-simultaneous requests
	// share an entry.
	return fmt.Sprintf("%s|up=%t|past=%t|staff=%t|arch=%t|t=%s|p=%d|n=%d",
		filter.Type, filter.Upcoming, filter.Past, filter.IncludeStaff, filter.IncludeArchive,
		filter.Now.UTC().Truncate(time.Minute).Format("2006-01-02T15:04"), page, pageSize)
}
