package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"incubator/internal/auth"
	"incubator/internal/cache"
	apperrors "incubator/internal/errors"
	"incubator/internal/mail"
	"incubator/internal/model"
	"incubator/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9.+_-]+@[A-Za-z0-9._-]+\.[a-zA-Z]*$`)

// AuthService handles registration, activation and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Activate(ctx context.Context, activationCode string) (string, error)
	Login(ctx context.Context, email, password string) (userEmail, token string, err error)
}

// AuthOptions tunes AuthService behaviour.
type AuthOptions struct {
	// RequireActiveLogin rejects login for accounts that were never activated.
	RequireActiveLogin bool

	// Tokens, when set, makes activation codes single use.
	Tokens *auth.TokenStore

	Logger *slog.Logger
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	mailer     mail.Mailer
	cache      *cache.Client
	opts       AuthOptions
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, mailer mail.Mailer, cache *cache.Client, opts AuthOptions) AuthService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		cache:      cache,
		opts:       opts,
	}
}

// Register stores an inactive account and mails its activation code. An
// inactive account registered earlier under the same email is overwritten.
// The account stays stored when the mail cannot be sent.
func (s *authService) Register(ctx context.Context, username, email, password string) (string, error) {
	if !emailPattern.MatchString(email) {
		return "", apperrors.ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return "", apperrors.ErrWeakPassword
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("check user existence: %w", err)
	}
	if existing != nil && existing.Active {
		return "", apperrors.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if existing != nil {
		existing.Username = username
		existing.PasswordHash = string(hashedPassword)
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return "", fmt.Errorf("update user: %w", err)
		}
		_ = s.cache.Delete(ctx, userCacheKey(email))
	} else {
		user := &model.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hashedPassword),
			Active:       false,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", fmt.Errorf("create user: %w", err)
		}
	}

	code, err := s.jwtService.IssueActivation(email)
	if err != nil {
		return "", fmt.Errorf("issue activation token: %w", err)
	}

	if err := s.mailer.Send(ctx, mail.ActivationMessage(email, code)); err != nil {
		s.opts.Logger.ErrorContext(ctx, "activation mail failed", "email", email, "err", err)
		return "", fmt.Errorf("%w: %v", apperrors.ErrMailDelivery, err)
	}

	s.opts.Logger.InfoContext(ctx, "user registered", "email", email)
	return email, nil
}

// Activate marks the account named by a valid activation code as active.
func (s *authService) Activate(ctx context.Context, activationCode string) (string, error) {
	claims, err := s.jwtService.VerifyPurpose(activationCode, auth.PurposeActivation)
	if err != nil {
		if errors.Is(err, apperrors.ErrExpiredToken) {
			return "", apperrors.ErrExpiredActivationCode
		}
		return "", apperrors.ErrInvalidActivationCode
	}
	if !s.opts.Tokens.ConsumeActivation(ctx, claims) {
		return "", apperrors.ErrInvalidActivationCode
	}

	if err := s.userRepo.SetActive(ctx, claims.Email, true); err != nil {
		s.opts.Tokens.ReleaseActivation(ctx, claims)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("activate user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(claims.Email))

	s.opts.Logger.InfoContext(ctx, "user activated", "email", claims.Email)
	return claims.Email, nil
}

// Login checks the password and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apperrors.ErrUserNotFound
		}
		return "", "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", apperrors.ErrInvalidPassword
	}

	if s.opts.RequireActiveLogin && !user.Active {
		return "", "", apperrors.ErrAccountInactive
	}

	token, err := s.jwtService.IssueSession(user.Email)
	if err != nil {
		return "", "", fmt.Errorf("issue session token: %w", err)
	}
	return user.Email, token, nil
}
