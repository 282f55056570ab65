package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "incubator/internal/errors"
	"incubator/internal/model"
)

func TestEventService_Create(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
		return e.Description == "kickoff" && !e.CreatedAt.IsZero()
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Event).ID = 1
	}).Return(nil)

	svc := NewEventService(mockRepo, nil)
	event, err := svc.Create(context.Background(), "kickoff")

	require.NoError(t, err)
	assert.Equal(t, uint(1), event.ID)
	mockRepo.AssertExpectations(t)
}

func TestEventService_Get(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Event{ID: 1, Description: "kickoff"}, nil).Once()
	mockRepo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewEventService(mockRepo, newCacheForTest(t))

	for i := 0; i < 2; i++ {
		event, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "kickoff", event.Description)
	}

	_, err := svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	mockRepo.AssertExpectations(t)
}

func TestEventService_Update(t *testing.T) {
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	mockRepo := new(MockEventRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Event{ID: 1, Description: "kickoff", CreatedAt: old}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
		return e.Description == "retro" && e.CreatedAt.After(old)
	})).Return(nil)
	mockRepo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewEventService(mockRepo, nil)

	event, err := svc.Update(context.Background(), 1, "retro")
	require.NoError(t, err)
	assert.Equal(t, "retro", event.Description)

	_, err = svc.Update(context.Background(), 9, "retro")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	mockRepo.AssertExpectations(t)
}

func TestEventService_Delete(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil)
	mockRepo.On("Delete", mock.Anything, uint(2)).Return(gorm.ErrRecordNotFound)

	svc := NewEventService(mockRepo, nil)

	assert.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 2), apperrors.ErrEventNotFound)
	mockRepo.AssertExpectations(t)
}

func TestEventService_List(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockRepo.On("List", mock.Anything).Return([]model.Event{{ID: 1}, {ID: 2}}, nil)

	svc := NewEventService(mockRepo, nil)
	events, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, events, 2)
}
