package service

import (
	"context"
	"testing"
	"time"

	"github.com/swifttax/swifttax-api/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestAuthService() *AuthService {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            testSecret,
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 168 * time.Hour,
		},
	}
	return NewAuthService(nil, nil, cfg, zap.NewNop())
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func accessClaims(userID int, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  userID,
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
		"jti":  "test-jti",
		"type": "access",
	}
}

func TestValidateTokenAcceptsAccessToken(t *testing.T) {
	svc := newTestAuthService()
	token := signToken(t, testSecret, accessClaims(42, time.Now().Add(time.Hour)))

	userID, err := svc.ValidateToken(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestValidateTokenRejectsRefreshToken(t *testing.T) {
	svc := newTestAuthService()
	claims := accessClaims(42, time.Now().Add(time.Hour))
	claims["type"] = "refresh"
	token := signToken(t, testSecret, claims)

	_, err := svc.ValidateToken(context.Background(), token)
	assert.EqualError(t, err, "invalid token type")
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService()
	token := signToken(t, testSecret, accessClaims(42, time.Now().Add(-time.Minute)))

	_, err := svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestAuthService()
	token := signToken(t, "some-other-secret", accessClaims(42, time.Now().Add(time.Hour)))

	_, err := svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.ValidateToken(context.Background(), "not.a.token")
	assert.Error(t, err)
}

func TestLogoutWithoutRedisAcceptsValidToken(t *testing.T) {
	svc := newTestAuthService()
	token := signToken(t, testSecret, accessClaims(42, time.Now().Add(time.Hour)))

	assert.NoError(t, svc.Logout(context.Background(), token))
}

func TestLogoutRejectsInvalidToken(t *testing.T) {
	svc := newTestAuthService()

	err := svc.Logout(context.Background(), "garbage")
	assert.EqualError(t, err, "invalid token")
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-password")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}
