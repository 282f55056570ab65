package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"incubator/internal/cache"
	apperrors "incubator/internal/errors"
	"incubator/internal/model"
	"incubator/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService resolves accounts for authenticated requests.
type UserService interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func userCacheKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(email), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.cache.SetJSON(ctx, userCacheKey(email), user, userCacheTTL)
	return user, nil
}
