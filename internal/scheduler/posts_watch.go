package scheduler

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/postnav/internal/logger"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// PostsWatcher pushes a reload trigger when the posts file changes on disk.
// The directory is watched so editors that replace the file are seen.
type PostsWatcher struct {
	path    string
	trigger chan<- struct{}
	logger  logger.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewPostsWatcher creates a watcher for path that feeds trigger
func NewPostsWatcher(path string, trigger chan<- struct{}, log logger.Logger) *PostsWatcher {
	return &PostsWatcher{
		path:    filepath.Clean(path),
		trigger: trigger,
		logger:  log,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start begins watching
func (pw *PostsWatcher) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(pw.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(pw.path), err)
	}
	pw.watcher = w

	pw.logger.Info("watching posts file",
		logger.String("file", pw.path))

	go pw.loop(ctx)
	return nil
}

func (pw *PostsWatcher) loop(ctx context.Context) {
	defer close(pw.doneCh)
	defer func() { _ = pw.watcher.Close() }()

	for {
		select {
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != pw.path || event.Op&watchedOps == 0 {
				continue
			}
			pw.logger.Debug("posts file changed",
				logger.String("op", event.Op.String()))
			pw.notify()
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.Warn("watcher error",
				logger.Error(err))
		case <-pw.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// notify never blocks: a pending trigger already covers this change.
func (pw *PostsWatcher) notify() {
	select {
	case pw.trigger <- struct{}{}:
	default:
	}
}

// Stop stops the watcher and waits for its goroutine
func (pw *PostsWatcher) Stop() {
	close(pw.stopCh)
	if pw.watcher != nil {
		<-pw.doneCh
	}
}
