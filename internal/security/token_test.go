package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"palanquee-backend/internal/domain"
)

const testSecret = "unit-test-secret-unit-test-secret!!!"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60, 60*24*7)

	t.Run("Access token", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(3, "nina@club.test", domain.MemberRoleOrganizer)
		assert.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), claims.MemberID)
		assert.Equal(t, "nina@club.test", claims.Email)
		assert.Equal(t, domain.MemberRoleOrganizer, claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.Type)
	})

	t.Run("Refresh token carries no role", func(t *testing.T) {
		token, err := tm.GenerateRefreshToken(3, "nina@club.test")
		assert.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, TokenTypeRefresh, claims.Type)
		assert.Empty(t, claims.Role)
	})
}

func TestTokenManager_Validate(t *testing.T) {
	tm := NewTokenManager(testSecret, 60, 60)

	t.Run("Garbage rejected", func(t *testing.T) {
		_, err := tm.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong secret rejected", func(t *testing.T) {
		other := NewTokenManager("some-other-secret-some-other-secret!", 60, 60)
		token, err := other.GenerateAccessToken(3, "nina@club.test", domain.MemberRoleMember)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired token rejected", func(t *testing.T) {
		expired := NewTokenManager(testSecret, -1, -1)
		token, err := expired.GenerateAccessToken(3, "nina@club.test", domain.MemberRoleMember)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
