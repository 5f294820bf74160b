package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("admin-1", auth.RoleAdmin)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	userID, _ := parsed.Get("user_id")
	role, _ := parsed.Get("role")
	assert.Equal(t, "admin-1", userID)
	assert.Equal(t, "admin", role)
}

func TestGenerateAccessToken_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, _, err := svc.GenerateAccessToken("", auth.RoleAdmin)
	assert.ErrorIs(t, err, auth.ErrActorMissingInToken)

	_, _, err = svc.GenerateAccessToken("u1", auth.Role("owner"))
	assert.ErrorIs(t, err, auth.ErrInvalidRole)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, _, err := svc.GenerateAccessToken("m1", auth.RoleManager)
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
}
