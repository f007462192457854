package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/postnav/internal/index"
	"github.com/MrSnakeDoc/postnav/internal/logger"
)

// RedisSyncer restores the last-good post list from redis on startup
type RedisSyncer struct {
	store  PostsStore
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store PostsStore,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the post list snapshot into the memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing posts from redis to memory")

	posts, ok, err := rs.store.GetPosts(ctx)
	if err != nil {
		return err
	}

	if !ok {
		rs.logger.Info("no posts snapshot found in redis")
		return nil
	}

	rs.index.SetPosts(posts)

	rs.logger.Info("synced posts from redis",
		logger.Int("count", posts.Len()))

	return nil
}
