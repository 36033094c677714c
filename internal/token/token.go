// Package token issues and validates the signed JWTs used by the API.
// Expiry is the sole invalidation mechanism; no revocation state is kept.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Claims struct {
	UserID    string `json:"sub"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Service signs and validates tokens. The clock is a field so expiry
// behavior is a pure function of (token, now, secret) in tests.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  time.Duration(cfg.JWTAccessExpiryMin) * time.Minute,
		refreshTTL: time.Duration(cfg.JWTRefreshExpiryDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

// Issue mints an access/refresh pair for the user.
func (s *Service) Issue(userID uuid.UUID) (Pair, error) {
	access, err := s.sign(userID, TypeAccess, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(userID, TypeRefresh, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Validate checks signature, expiry, and token type, returning the user id
// the token was issued for. Every failure mode maps to ErrUnauthorized.
func (s *Service) Validate(tokenString, wantType string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, chatbot_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, chatbot_errors.ErrUnauthorized
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return uuid.Nil, chatbot_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, chatbot_errors.ErrUnauthorized
	}

	if claims.TokenType != wantType {
		return uuid.Nil, chatbot_errors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, chatbot_errors.ErrUnauthorized
	}

	return userID, nil
}

// Refresh validates a refresh token and mints a new access token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	userID, err := s.Validate(refreshToken, TypeRefresh)
	if err != nil {
		return "", err
	}
	return s.sign(userID, TypeAccess, s.accessTTL)
}

// AccessTTL reports the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *Service) sign(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    userID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}
