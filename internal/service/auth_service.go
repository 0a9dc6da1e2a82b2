package service

import (
	"context"
	"errors"
	"time"

	"github.com/swifttax/swifttax-api/internal/config"
	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication and token generation
type AuthService struct {
	userRepo    *repository.UserRepository
	redisClient *redis.Client
	cfg         *config.Config
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service. redisClient may be
// nil, in which case logout does not revoke tokens before expiry.
func NewAuthService(userRepo *repository.UserRepository, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, login *model.UserLogin) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, login.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, errors.New("invalid email or password")
	}

	if user.Status != model.StatusActive {
		return nil, errors.New("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		s.logger.Debug("password verification failed", zap.Error(err))
		return nil, errors.New("invalid email or password")
	}

	accessToken, refreshToken, expiresAt, err := s.generateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err), zap.Int("userID", user.ID))
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		return nil, errors.New("invalid token type")
	}

	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return nil, errors.New("invalid user ID in token")
	}
	userID := int(userIDFloat)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != model.StatusActive {
		return nil, errors.New("user not found or inactive")
	}

	accessToken, newRefreshToken, expiresAt, err := s.generateTokens(userID)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// Logout revokes the presented access token by blacklisting its jti in
// Redis until the token would have expired anyway
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return errors.New("invalid token")
	}

	if s.redisClient == nil {
		s.logger.Info("logout without token revocation, redis disabled")
		return nil
	}

	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	if jti == "" {
		return errors.New("token has no jti")
	}

	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl <= 0 {
		return nil
	}

	key := s.cfg.Redis.BlacklistPrefix + jti
	if err := s.redisClient.Set(ctx, key, 1, ttl).Err(); err != nil {
		s.logger.Error("failed to blacklist token", zap.Error(err))
		return err
	}

	return nil
}

// ValidateToken validates an access token and returns the user ID if the
// token is well formed, unexpired and not revoked
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (int, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return 0, err
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return 0, errors.New("invalid token type")
	}

	if s.redisClient != nil {
		if jti, ok := claims["jti"].(string); ok && jti != "" {
			key := s.cfg.Redis.BlacklistPrefix + jti
			exists, err := s.redisClient.Exists(ctx, key).Result()
			if err != nil {
				s.logger.Warn("token blacklist check failed", zap.Error(err))
			} else if exists > 0 {
				return 0, errors.New("token has been revoked")
			}
		}
	}

	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid user ID in token")
	}

	return int(userIDFloat), nil
}

// parseToken parses and verifies a token, returning its claims
func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// generateTokens creates a new pair of access and refresh tokens
func (s *AuthService) generateTokens(userID int) (accessToken, refreshToken string, expiresAt time.Time, err error) {
	accessExpiry := time.Now().Add(s.cfg.Auth.AccessTokenDuration)

	accessClaims := jwt.MapClaims{
		"sub":  userID,
		"exp":  accessExpiry.Unix(),
		"iat":  time.Now().Unix(),
		"jti":  uuid.NewString(),
		"type": "access",
	}

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessToken, err = access.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return "", "", time.Time{}, err
	}

	refreshExpiry := time.Now().Add(s.cfg.Auth.RefreshTokenDuration)
	refreshClaims := jwt.MapClaims{
		"sub":  userID,
		"exp":  refreshExpiry.Unix(),
		"iat":  time.Now().Unix(),
		"jti":  uuid.NewString(),
		"type": "refresh",
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshToken, err = refresh.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign refresh token", zap.Error(err))
		return "", "", time.Time{}, err
	}

	return accessToken, refreshToken, accessExpiry, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
