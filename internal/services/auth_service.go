package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/cobuy-api/internal/config"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/repository"
)

// AuthService issues access tokens for known users
type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// TokenResult is a signed token with its expiry
type TokenResult struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      models.UserResponse `json:"user"`
}

// IssueToken signs a token for the user, valid from now
func (s *AuthService) IssueToken(ctx context.Context, userID string, now time.Time) (*TokenResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}

	expiresAt := now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	token, err := s.generateJWT(user, now, expiresAt)
	if err != nil {
		return nil, err
	}
	return &TokenResult{Token: token, ExpiresAt: expiresAt, User: user.ToResponse()}, nil
}

// generateJWT creates a new JWT token for a user
func (s *AuthService) generateJWT(user *models.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     issuedAt.Unix(),
	}
	if user.HasEmail() {
		claims["email"] = *user.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
