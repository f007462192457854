package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SaveRendered stores rendered HTML under its render key
func (s *Store) SaveRendered(ctx context.Context, hash, html string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultRenderTTL
	}
	if err := s.client.Set(ctx, RenderedKey(hash), html, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rendered post: %w", err)
	}
	return nil
}

// GetRendered retrieves rendered HTML. A miss returns "", nil.
func (s *Store) GetRendered(ctx context.Context, hash string) (string, error) {
	html, err := s.client.Get(ctx, RenderedKey(hash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get rendered post: %w", err)
	}
	return html, nil
}

// RenderedHashes lists the render keys currently cached
func (s *Store) RenderedHashes(ctx context.Context) ([]string, error) {
	var hashes []string
	iter := s.client.Scan(ctx, 0, KeyPrefixRendered+"*", 0).Iterator()
	for iter.Next(ctx) {
		hash, err := ExtractHash(iter.Val())
		if err != nil {
			continue
		}
		hashes = append(hashes, hash)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan rendered posts: %w", err)
	}
	return hashes, nil
}

// DeleteRendered removes cached documents in one pipeline
func (s *Store) DeleteRendered(ctx context.Context, hashes ...string) error {
	if len(hashes) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, h := range hashes {
		pipe.Del(ctx, RenderedKey(h))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete rendered posts: %w", err)
	}
	return nil
}
