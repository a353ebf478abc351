package service

import (
	"context"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
)

type memberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) GetProfile(ctx context.Context, memberID int64) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, memberID)
}

func (s *memberService) UpdateProfile(ctx context.Context, memberID int64, name, phone, divingLevel string, medicalCertUntil *string) error {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	member.Name = name
	member.PhoneNumber = phone
	member.DivingLevel = divingLevel
	member.MedicalCertUntil = medicalCertUntil
	return s.memberRepo.Update(ctx, member)
}

func (s *memberService) ListMembers(ctx context.Context, page, pageSize int32) ([]domain.Member, int32, error) {
	return s.memberRepo.List(ctx, page, pageSize)
}

func (s *memberService) SetRole(ctx context.Context, actorRole domain.MemberRole, memberID int64, role domain.MemberRole) error {
	if actorRole != domain.MemberRoleAdmin {
		return domain.ErrForbidden
	}
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	member.Role = role
	return s.memberRepo.Update(ctx, member)
}
