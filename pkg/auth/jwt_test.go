package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_HMACRoundTrip(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret",
		Issuer:     "whit-lend",
		Expiration: time.Hour,
	})
	require.NoError(t, err)

	userID := uuid.New()
	tenantID := uuid.New()

	token, err := svc.GenerateToken(userID, tenantID, []string{RoleOperator})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.True(t, claims.HasRole(RoleOperator))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	issuer, err := NewJWTService(JWTConfig{Secret: "s", Issuer: "other", Expiration: time.Hour})
	require.NoError(t, err)
	token, err := issuer.GenerateToken(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	validator, err := NewJWTService(JWTConfig{Secret: "s", Issuer: "whit-lend"})
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid issuer")
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "s", Expiration: time.Hour})
	require.NoError(t, err)
	token, err := svc.GenerateToken(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	require.Error(t, err)
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
}
