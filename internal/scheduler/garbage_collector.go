package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/index"
	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/render"
)

const (
	// DefaultPageTTL is the idle time after which a page session is dropped
	DefaultPageTTL = 30 * time.Minute
)

// RenderStore is the render-cache side of the redis store.
type RenderStore interface {
	RenderedHashes(ctx context.Context) ([]string, error)
	DeleteRendered(ctx context.Context, hashes ...string) error
}

// SourceFetcher reads post sources so their current cache key can be computed.
type SourceFetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// GarbageCollector evicts idle page sessions and stale render-cache entries
type GarbageCollector struct {
	store    RenderStore
	fetcher  SourceFetcher
	index    *index.MemoryIndex
	logger   logger.Logger
	interval time.Duration
	pageTTL  time.Duration
	key      func(src []byte) string
	now      func() time.Time
	stopCh   chan struct{}
}

// NewGarbageCollector creates a new garbage collector. store and fetcher may
// be nil, in which case only pages are collected.
func NewGarbageCollector(
	store RenderStore,
	fetcher SourceFetcher,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	pageTTL time.Duration,
) *GarbageCollector {
	if pageTTL == 0 {
		pageTTL = DefaultPageTTL
	}

	return &GarbageCollector{
		store:    store,
		fetcher:  fetcher,
		index:    idx,
		logger:   log,
		interval: interval,
		pageTTL:  pageTTL,
		key:      render.Hash,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// SetRenderKey sets how a post source maps to its render-cache key. It must
// match the key the cached converter writes, otherwise every entry is stale.
func (gc *GarbageCollector) SetRenderKey(fn func(src []byte) string) {
	if fn != nil {
		gc.key = fn
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes idle pages and render entries no current post maps to
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	gc.logger.Debug("running garbage collection")

	pagesDeleted := gc.collectPages(gc.now())

	rendersDeleted, err := gc.collectRenders(ctx)

	if pagesDeleted > 0 || rendersDeleted > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("pages_deleted", pagesDeleted),
			logger.Int("renders_deleted", rendersDeleted))
	} else {
		gc.logger.Debug("no items to garbage collect")
	}

	return err
}

// collectPages removes page sessions idle for longer than the TTL
func (gc *GarbageCollector) collectPages(now time.Time) int {
	idle := gc.index.IdlePages(now.Add(-gc.pageTTL))
	for _, id := range idle {
		gc.index.DeletePage(id)
		gc.logger.Debug("garbage collected idle page",
			logger.String("page_id", id))
	}
	return len(idle)
}

// collectRenders drops cached renders whose key matches no file of the
// current post list under the current settings. Files that cannot be read keep nothing alive.
func (gc *GarbageCollector) collectRenders(ctx context.Context) (int, error) {
	if gc.store == nil || gc.fetcher == nil {
		return 0, nil
	}
	posts, ok := gc.index.Posts()
	if !ok {
		return 0, nil
	}

	live := make(map[string]bool, posts.Len())
	for file := range posts.Files() {
		src, err := gc.fetcher.Fetch(ctx, file)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			gc.logger.Debug("skipping unreadable post",
				logger.String("file", file),
				logger.Error(err))
			continue
		}
		live[gc.key(src)] = true
	}

	cached, err := gc.store.RenderedHashes(ctx)
	if err != nil {
		return 0, err
	}

	var stale []string
	for _, h := range cached {
		if !live[h] {
			stale = append(stale, h)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := gc.store.DeleteRendered(ctx, stale...); err != nil {
		return 0, fmt.Errorf("failed to delete stale renders: %w", err)
	}
	return len(stale), nil
}
