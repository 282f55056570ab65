package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"incubator/internal/model"
)

func TestEventRepository_CRUD(t *testing.T) {
	repo := NewEventRepository(newRepositoryDBForTest(t))
	ctx := context.Background()

	first := &model.Event{Description: "kickoff"}
	second := &model.Event{Description: "retro"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	events, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].ID)
	assert.Equal(t, second.ID, events[1].ID)

	second.Description = "retrospective"
	second.CreatedAt = time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.Update(ctx, second))

	got, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "retrospective", got.Description)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEventRepository_DeleteMissing(t *testing.T) {
	repo := NewEventRepository(newRepositoryDBForTest(t))

	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
