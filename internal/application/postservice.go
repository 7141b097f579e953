package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// PostService serves the public event feed and lets the administrator
// remove posts.
type PostService struct {
	public driven.PublicAPI
	admin  driven.AdminAPI
}

// NewPostService creates a new PostService with the required dependencies.
func NewPostService(public driven.PublicAPI, admin driven.AdminAPI) *PostService {
	return &PostService{public: public, admin: admin}
}

// Events returns the event posts, newest first.
func (s *PostService) Events(ctx context.Context) ([]model.EventPost, error) {
	posts, err := s.public.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// Shorts returns the showcase videos, newest first.
func (s *PostService) Shorts(ctx context.Context) ([]model.Short, error) {
	shorts, err := s.public.ListShorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shorts: %w", err)
	}
	sort.SliceStable(shorts, func(i, j int) bool {
		return shorts[i].CreatedAt.After(shorts[j].CreatedAt)
	})
	return shorts, nil
}

// Delete removes an event post.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: post id must be positive", ErrInvalidInput)
	}
	if err := s.admin.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}
