package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	tokenID, token, err := svc.GenerateAccessToken(userID, "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenID)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, tokenID, claims.ID)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, token, err := svc.GenerateAccessToken(uuid.New(), "test@example.com")
	assert.NoError(t, err)

	other := NewJWTService("different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		UserID: uuid.New(),
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	svc := NewJWTService(secret)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestJWTService_ExtractTokenID(t *testing.T) {
	svc := NewJWTService("test-secret")
	tokenID, token, err := svc.GenerateRefreshToken(uuid.New(), "test@example.com")
	assert.NoError(t, err)

	got, err := svc.ExtractTokenID(token)
	assert.NoError(t, err)
	assert.Equal(t, tokenID, got)

	_, err = svc.ExtractTokenID("not-a-token")
	assert.Error(t, err)
}
