package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/index"
	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/sources/postfile"
)

// PostsStore is the snapshot side of the redis store.
type PostsStore interface {
	SavePosts(ctx context.Context, posts domain.PostList) error
	GetPosts(ctx context.Context) (domain.PostList, bool, error)
}

// PostsReloader handles periodic reloading of the post list
type PostsReloader struct {
	loader        *postfile.Loader
	mapper        *postfile.Mapper
	store         PostsStore
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewPostsReloader creates a new post list reloader. An empty postsFile
// means the built-in list is used and reloads are no-ops.
func NewPostsReloader(
	postsFile string,
	store PostsStore,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *PostsReloader {
	pr := &PostsReloader{
		mapper:        postfile.NewMapper(),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
	if postsFile != "" {
		pr.loader = postfile.NewLoader(postsFile)
	}
	return pr
}

// Start loads the list once then reloads on every tick or manual trigger.
// A failed initial load is fatal unless the index already holds a list,
// such as a snapshot restored from redis; that list is served until a
// later reload succeeds.
func (pr *PostsReloader) Start(ctx context.Context) error {
	if err := pr.Reload(ctx); err != nil {
		previous, ok := pr.index.Posts()
		if !ok {
			return fmt.Errorf("initial reload failed: %w", err)
		}
		pr.logger.Warn("initial reload failed, serving restored posts",
			logger.Int("count", previous.Len()),
			logger.Error(err))
	}

	if pr.loader == nil || pr.interval <= 0 {
		go pr.triggerLoop(ctx, nil)
		return nil
	}

	ticker := time.NewTicker(pr.interval)
	go func() {
		defer ticker.Stop()
		pr.triggerLoop(ctx, ticker.C)
	}()

	return nil
}

func (pr *PostsReloader) triggerLoop(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-tick:
			if err := pr.Reload(ctx); err != nil {
				pr.logger.Error("failed to reload posts",
					logger.Error(err))
			}
		case <-pr.manualTrigger:
			pr.logger.Info("manual reload triggered")
			if err := pr.Reload(ctx); err != nil {
				pr.logger.Error("failed to reload posts",
					logger.Error(err))
			}
		case <-pr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the reloader
func (pr *PostsReloader) Stop() {
	close(pr.stopCh)
}

// Reload reads the posts file and updates the index and the redis snapshot.
// On failure the index keeps its previous list.
func (pr *PostsReloader) Reload(ctx context.Context) error {
	var posts domain.PostList
	if pr.loader == nil {
		posts = domain.DefaultPostList()
	} else {
		pr.logger.Info("reloading posts",
			logger.String("file", pr.loader.Path()))

		file, err := pr.loader.Load()
		if err != nil {
			return fmt.Errorf("failed to load posts: %w", err)
		}
		posts = pr.mapper.Map(file)
	}

	pr.index.SetPosts(posts)

	pr.logger.Info("loaded posts",
		logger.Int("count", posts.Len()))

	// Snapshot is best effort; the memory index is the primary source.
	if pr.store != nil {
		if err := pr.store.SavePosts(ctx, posts); err != nil {
			pr.logger.Warn("failed to save posts to redis",
				logger.Error(err))
		} else {
			pr.logger.Debug("posts saved to redis")
		}
	}

	return nil
}
