package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/security"
)

const testJWTSecret = "test-secret-test-secret-test-secret!"

func newAuthFixture() (*MockMemberRepo, security.TokenManager, AuthService) {
	memberRepo := new(MockMemberRepo)
	tokens := security.NewTokenManager(testJWTSecret, 60, 60*24*7)
	return memberRepo, tokens, NewAuthService(memberRepo, tokens)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		memberRepo, tokens, svc := newAuthFixture()

		memberRepo.On("GetByEmail", ctx, "nina@club.test").Return(nil, domain.ErrNotFound)
		memberRepo.On("Create", ctx, mock.AnythingOfType("*domain.Member")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Member).ID = 3
			}).Return(nil)

		member, access, refresh, err := svc.Signup(ctx, "Nina", "Nina@Club.test ", "0601", "longenough", "N2")
		assert.NoError(t, err)
		assert.Equal(t, "nina@club.test", member.Email)
		assert.Equal(t, domain.MemberRoleMember, member.Role)
		assert.NotEqual(t, "longenough", member.PasswordHash)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), claims.MemberID)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)

		claims, err = tokens.ValidateToken(refresh)
		assert.NoError(t, err)
		assert.Equal(t, security.TokenTypeRefresh, claims.Type)
	})

	t.Run("Short password", func(t *testing.T) {
		memberRepo, _, svc := newAuthFixture()

		_, _, _, err := svc.Signup(ctx, "Nina", "nina@club.test", "", "short", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		memberRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		memberRepo, _, svc := newAuthFixture()

		memberRepo.On("GetByEmail", ctx, "nina@club.test").Return(&domain.Member{ID: 3}, nil)

		_, _, _, err := svc.Signup(ctx, "Nina", "nina@club.test", "", "longenough", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		memberRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.DefaultCost)
	member := &domain.Member{
		ID:           3,
		Email:        "nina@club.test",
		Name:         "Nina",
		PasswordHash: string(hash),
		Role:         domain.MemberRoleMember,
	}

	t.Run("Success", func(t *testing.T) {
		memberRepo, tokens, svc := newAuthFixture()

		memberRepo.On("GetByEmail", ctx, "nina@club.test").Return(member, nil)

		got, access, _, err := svc.Login(ctx, "nina@club.test", "longenough")
		assert.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberRoleMember, claims.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		memberRepo, _, svc := newAuthFixture()

		memberRepo.On("GetByEmail", ctx, "nina@club.test").Return(member, nil)

		_, _, _, err := svc.Login(ctx, "nina@club.test", "wrongpass")
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("Unknown email", func(t *testing.T) {
		memberRepo, _, svc := newAuthFixture()

		memberRepo.On("GetByEmail", ctx, "ghost@club.test").Return(nil, domain.ErrNotFound)

		_, _, _, err := svc.Login(ctx, "ghost@club.test", "longenough")
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Refresh picks up role changes", func(t *testing.T) {
		memberRepo, tokens, svc := newAuthFixture()

		refresh, err := tokens.GenerateRefreshToken(3, "nina@club.test")
		assert.NoError(t, err)

		// Member has been promoted since the refresh token was issued.
		memberRepo.On("GetByID", ctx, int64(3)).Return(&domain.Member{
			ID: 3, Email: "nina@club.test", Role: domain.MemberRoleOrganizer,
		}, nil)

		access, _, err := svc.Refresh(ctx, refresh)
		assert.NoError(t, err)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberRoleOrganizer, claims.Role)
	})

	t.Run("Access token rejected as refresh", func(t *testing.T) {
		_, tokens, svc := newAuthFixture()

		access, err := tokens.GenerateAccessToken(3, "nina@club.test", domain.MemberRoleMember)
		assert.NoError(t, err)

		_, _, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		_, _, svc := newAuthFixture()

		_, _, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}
