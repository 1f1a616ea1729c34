package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamenight/trivia-backend/internal/config"
	"github.com/gamenight/trivia-backend/internal/model"
)

// TokenType distinguishes player vs admin tokens.
type TokenType string

const (
	TokenTypePlayer TokenType = "player"
	TokenTypeAdmin  TokenType = "admin"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	PlayerID  uuid.UUID `json:"player_id,omitempty"` // Player only
}

// AuthService handles the shared-password admin login and JWT issuance for
// both roles. There are no admin accounts: a single bcrypt hash stored in
// game_settings gates the whole admin surface.
type AuthService struct {
	cfg      *config.Config
	settings SettingStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, settings SettingStore) *AuthService {
	return &AuthService{cfg: cfg, settings: settings}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// AdminLogin checks the shared password against the stored hash and returns
// an admin JWT. A missing hash setting behaves like a wrong password so the
// endpoint never leaks whether the game has been initialized.
func (s *AuthService) AdminLogin(ctx context.Context, password string) (string, error) {
	setting, err := s.settings.GetByKey(ctx, model.SettingAdminPasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load admin password hash: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(setting.Value), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(TokenTypeAdmin, uuid.Nil)
}

// GeneratePlayerToken creates a JWT bound to a player identity.
func (s *AuthService) GeneratePlayerToken(playerID uuid.UUID) (string, error) {
	return s.generateToken(TokenTypePlayer, playerID)
}

func (s *AuthService) generateToken(tokenType TokenType, playerID uuid.UUID) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   string(tokenType),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: tokenType,
		PlayerID:  playerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
