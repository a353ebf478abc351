package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type gearService struct {
	gearRepo   repository.GearRepository
	memberRepo repository.MemberRepository
}

func NewGearService(gearRepo repository.GearRepository, memberRepo repository.MemberRepository) GearService {
	return &gearService{gearRepo: gearRepo, memberRepo: memberRepo}
}

func (s *gearService) AddItem(ctx context.Context, role domain.MemberRole, item *domain.GearItem) error {
	if !role.IsStaff() {
		return domain.ErrForbidden
	}
	if item.Tag == "" {
		item.Tag = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = domain.GearStatusAvailable
	}
	return s.gearRepo.CreateItem(ctx, item)
}

func (s *gearService) UpdateItem(ctx context.Context, role domain.MemberRole, item *domain.GearItem) error {
	if !role.IsStaff() {
		return domain.ErrForbidden
	}
	return s.gearRepo.UpdateItem(ctx, item)
}

func (s *gearService) ListItems(ctx context.Context, status domain.GearStatus, page, pageSize int32) ([]domain.GearItem, int32, error) {
	return s.gearRepo.ListItems(ctx, status, page, pageSize)
}

func (s *gearService) LoanItem(ctx context.Context, role domain.MemberRole, itemID, memberID int64, dueOn time.Time) (*domain.GearLoan, error) {
	if !role.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	loan := &domain.GearLoan{
		GearItemID: itemID,
		MemberID:   memberID,
		DueOn:      dueOn.UTC().Format(time.RFC3339),
	}
	if err := s.gearRepo.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *gearService) ReturnItem(ctx context.Context, role domain.MemberRole, loanID int64) (*domain.GearLoan, error) {
	if !role.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.gearRepo.CloseLoan(ctx, loanID, time.Now())
}

func (s *gearService) ListMemberLoans(ctx context.Context, memberID int64, openOnly bool) ([]domain.GearLoan, error) {
	return s.gearRepo.ListLoansByMember(ctx, memberID, openOnly)
}
