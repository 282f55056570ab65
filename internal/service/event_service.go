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

const eventCacheTTL = 5 * time.Minute

// EventService handles event CRUD.
type EventService interface {
	Create(ctx context.Context, description string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id uint) (*model.Event, error)
	Update(ctx context.Context, id uint, description string) (*model.Event, error)
	Delete(ctx context.Context, id uint) error
}

type eventService struct {
	repo  repository.EventRepository
	cache *cache.Client
	now   func() time.Time
}

// NewEventService creates a new event service.
func NewEventService(repo repository.EventRepository, cache *cache.Client) EventService {
	return &eventService{
		repo:  repo,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *eventService) cacheKey(id uint) string {
	return fmt.Sprintf("event:%d", id)
}

func (s *eventService) Create(ctx context.Context, description string) (*model.Event, error) {
	event := &model.Event{Description: description, CreatedAt: s.now()}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Get retrieves an event by ID with caching.
func (s *eventService) Get(ctx context.Context, id uint) (*model.Event, error) {
	var cached model.Event
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), event, eventCacheTTL)
	return event, nil
}

// Update replaces the description and resets the timestamp.
func (s *eventService) Update(ctx context.Context, id uint, description string) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	event.Description = description
	event.CreatedAt = s.now()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
