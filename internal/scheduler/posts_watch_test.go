package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/logger"
)

func TestPostsWatcher_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.yaml")
	writePosts(t, path, "posts: []\n")

	trigger := make(chan struct{}, 1)
	pw := NewPostsWatcher(path, trigger, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pw.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer pw.Stop()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-trigger:
		t.Fatal("write to another file should not trigger a reload")
	case <-time.After(100 * time.Millisecond):
	}

	writePosts(t, path, "posts:\n  - file: posts/a.md\n")
	select {
	case <-trigger:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload trigger")
	}
}

func TestPostsWatcher_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "posts.yaml")
	pw := NewPostsWatcher(path, make(chan struct{}, 1), logger.NewNop())
	if err := pw.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the directory does not exist")
	}
}
