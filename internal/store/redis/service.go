package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/postnav/internal/domain"
)

const (
	// DefaultRenderTTL is the default TTL for rendered posts (24 hours)
	DefaultRenderTTL = 24 * time.Hour
	// DefaultPostsTTL keeps the post list snapshot for a week
	DefaultPostsTTL = 7 * 24 * time.Hour
)

// Store handles redis operations for the render cache and the post list snapshot
type Store struct {
	client *redis.Client
}

// NewStore creates a new redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

type postsSnapshot struct {
	Posts   []domain.Post `json:"posts"`
	SavedAt time.Time     `json:"saved_at"`
}

// SavePosts stores the post list snapshot
func (s *Store) SavePosts(ctx context.Context, posts domain.PostList) error {
	data, err := json.Marshal(postsSnapshot{Posts: posts.All(), SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}

	if err := s.client.Set(ctx, PostsKey(), data, DefaultPostsTTL).Err(); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}
	return nil
}

// GetPosts returns the post list snapshot. ok is false when none is stored.
func (s *Store) GetPosts(ctx context.Context) (list domain.PostList, ok bool, err error) {
	data, err := s.client.Get(ctx, PostsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.PostList{}, false, nil
		}
		return domain.PostList{}, false, fmt.Errorf("failed to get posts: %w", err)
	}

	var snap postsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.PostList{}, false, fmt.Errorf("failed to unmarshal posts: %w", err)
	}
	return domain.NewPostList(snap.Posts), true, nil
}
