package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "incubator/internal/errors"
)

// Purpose discriminates what a token may be exchanged for.
type Purpose string

const (
	// PurposeActivation tokens are mailed at registration and flip an account active.
	PurposeActivation Purpose = "activation"
	// PurposeSession tokens are issued at login and presented on protected routes.
	PurposeSession Purpose = "session"
)

// Claims represents JWT claims.
type Claims struct {
	Email   string  `json:"email"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret        []byte
	activationTTL time.Duration
	sessionTTL    time.Duration
	now           func() time.Time
}

// Option customises a JWTService.
type Option func(*JWTService)

// WithClock replaces the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService creates a new JWT service with the given secret and token lifetimes.
func NewJWTService(secret string, activationTTL, sessionTTL time.Duration, opts ...Option) *JWTService {
	s := &JWTService{
		secret:        []byte(secret),
		activationTTL: activationTTL,
		sessionTTL:    sessionTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueActivation signs an activation token for email.
func (s *JWTService) IssueActivation(email string) (string, error) {
	return s.Issue(PurposeActivation, email, s.activationTTL)
}

// IssueSession signs a session token for email.
func (s *JWTService) IssueSession(email string) (string, error) {
	return s.Issue(PurposeSession, email, s.sessionTTL)
}

// Issue signs a token carrying email and purpose that expires after ttl.
func (s *JWTService) Issue(purpose Purpose, email string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token's signature and expiry and returns its claims.
// Failures are reported as ErrInvalidToken or ErrExpiredToken.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// VerifyPurpose is Verify restricted to tokens issued for purpose.
func (s *JWTService) VerifyPurpose(tokenString string, purpose Purpose) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
