package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTokenValid(t *testing.T) {
	svc := NewAuthService("test-secret")
	userID := uuid.New()
	household := uuid.New()

	token, err := svc.GenerateToken(userID, &household, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	require.NotNil(t, claims.HouseholdID)
	assert.Equal(t, household.String(), claims.Household())
}

func TestValidateTokenWithoutHousehold(t *testing.T) {
	svc := NewAuthService("test-secret")
	token, err := svc.GenerateToken(uuid.New(), nil, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.HouseholdID)
	assert.Empty(t, claims.Household())
}

func TestValidateTokenInvalid(t *testing.T) {
	svc := NewAuthService("test-secret")

	_, err := svc.ValidateToken("invalid.token")
	assert.Error(t, err)

	other, err := NewAuthService("other-secret").GenerateToken(uuid.New(), nil, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.Error(t, err)

	expired, err := svc.GenerateToken(uuid.New(), nil, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenMissingUser(t *testing.T) {
	svc := NewAuthService("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}
