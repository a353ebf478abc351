package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
	"palanquee-backend/internal/security"
)

type authService struct {
	memberRepo repository.MemberRepository
	tokens     security.TokenManager
}

func NewAuthService(memberRepo repository.MemberRepository, tokens security.TokenManager) AuthService {
	return &authService{memberRepo: memberRepo, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password, divingLevel string) (*domain.Member, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return nil, "", "", fmt.Errorf("password must be at least 8 characters: %w", domain.ErrInvalidInput)
	}

	if _, err := s.memberRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", "", fmt.Errorf("email already registered: %w", domain.ErrInvalidInput)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	member := &domain.Member{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		PhoneNumber:  phone,
		Role:         domain.MemberRoleMember,
		DivingLevel:  divingLevel,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(member)
	if err != nil {
		return nil, "", "", err
	}
	return member, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Member, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", "", domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", domain.ErrNotAuthenticated
	}

	access, refresh, err := s.issueTokens(member)
	if err != nil {
		return nil, "", "", err
	}
	return member, access, refresh, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", domain.ErrNotAuthenticated
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.ErrNotAuthenticated
	}

	// Re-read the member so a role change takes effect on refresh.
	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		return "", "", domain.ErrNotAuthenticated
	}
	return s.issueTokens(member)
}

func (s *authService) issueTokens(member *domain.Member) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(member.ID, member.Email, member.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(member.ID, member.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
