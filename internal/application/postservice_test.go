package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

func TestPostService_EventsNewestFirst(t *testing.T) {
	api := &mockAdminAPI{posts: []model.EventPost{
		{ID: 1, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewPostService(api, api)

	posts, err := svc.Events(context.Background())

	require.NoError(t, err)
	ids := []int64{posts[0].ID, posts[1].ID, posts[2].ID}
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestPostService_Delete(t *testing.T) {
	api := &mockAdminAPI{}
	svc := NewPostService(api, api)

	assert.ErrorIs(t, svc.Delete(context.Background(), 0), ErrInvalidInput)
	require.NoError(t, svc.Delete(context.Background(), 9))
	assert.Equal(t, []int64{9}, api.deletedPosts)
}

func TestPostService_ShortsNewestFirst(t *testing.T) {
	api := &mockAdminAPI{shorts: []model.Short{
		{ID: 1, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewPostService(api, api)

	shorts, err := svc.Shorts(context.Background())

	require.NoError(t, err)
	require.Len(t, shorts, 2)
	assert.Equal(t, int64(2), shorts[0].ID)
}
