package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/postnav/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestStorePing(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestRenderedRoundTrip(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	html, err := s.GetRendered(ctx, "abc")
	if err != nil {
		t.Fatalf("GetRendered() miss error = %v", err)
	}
	if html != "" {
		t.Errorf("GetRendered() miss = %q, want empty", html)
	}

	if err := s.SaveRendered(ctx, "abc", "<p>hi</p>", time.Hour); err != nil {
		t.Fatalf("SaveRendered() error = %v", err)
	}
	html, err = s.GetRendered(ctx, "abc")
	if err != nil {
		t.Fatalf("GetRendered() error = %v", err)
	}
	if html != "<p>hi</p>" {
		t.Errorf("GetRendered() = %q", html)
	}
	if ttl := mr.TTL(RenderedKey("abc")); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}
}

func TestSaveRenderedDefaultTTL(t *testing.T) {
	s, mr := newTestStore(t)

	if err := s.SaveRendered(context.Background(), "abc", "<p>x</p>", 0); err != nil {
		t.Fatalf("SaveRendered() error = %v", err)
	}
	if ttl := mr.TTL(RenderedKey("abc")); ttl != DefaultRenderTTL {
		t.Errorf("TTL = %v, want %v", ttl, DefaultRenderTTL)
	}

	mr.FastForward(DefaultRenderTTL + time.Second)
	html, err := s.GetRendered(context.Background(), "abc")
	if err != nil || html != "" {
		t.Errorf("expired entry = %q, %v; want miss", html, err)
	}
}

func TestRenderedHashesAndDelete(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	for _, h := range []string{"a1", "b2", "c3"} {
		if err := s.SaveRendered(ctx, h, "<p>"+h+"</p>", time.Hour); err != nil {
			t.Fatalf("SaveRendered(%s) error = %v", h, err)
		}
	}
	// not part of the render cache
	if err := mr.Set(PostsKey(), "{}"); err != nil {
		t.Fatal(err)
	}
	if err := mr.Set("other:key", "x"); err != nil {
		t.Fatal(err)
	}

	hashes, err := s.RenderedHashes(ctx)
	if err != nil {
		t.Fatalf("RenderedHashes() error = %v", err)
	}
	sort.Strings(hashes)
	if len(hashes) != 3 || hashes[0] != "a1" || hashes[2] != "c3" {
		t.Fatalf("RenderedHashes() = %v", hashes)
	}

	if err := s.DeleteRendered(ctx, "a1", "c3", "missing"); err != nil {
		t.Fatalf("DeleteRendered() error = %v", err)
	}
	if mr.Exists(RenderedKey("a1")) || mr.Exists(RenderedKey("c3")) {
		t.Error("deleted entries still present")
	}
	if !mr.Exists(RenderedKey("b2")) || !mr.Exists(PostsKey()) {
		t.Error("DeleteRendered() removed too much")
	}

	if err := s.DeleteRendered(ctx); err != nil {
		t.Errorf("DeleteRendered() with no hashes error = %v", err)
	}
}

func TestPostsSnapshot(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetPosts(ctx)
	if err != nil || ok {
		t.Fatalf("GetPosts() empty = ok %v, err %v; want false, nil", ok, err)
	}

	posts := domain.NewPostList([]domain.Post{
		{Title: "Dreamserver", File: "posts/dreamserver.md"},
		{Title: "Homelab", File: "posts/homelab.md"},
	})
	if err := s.SavePosts(ctx, posts); err != nil {
		t.Fatalf("SavePosts() error = %v", err)
	}
	if ttl := mr.TTL(PostsKey()); ttl != DefaultPostsTTL {
		t.Errorf("TTL = %v, want %v", ttl, DefaultPostsTTL)
	}

	got, ok, err := s.GetPosts(ctx)
	if err != nil || !ok {
		t.Fatalf("GetPosts() = ok %v, err %v", ok, err)
	}
	all := got.All()
	if len(all) != 2 || all[0] != posts.All()[0] || all[1] != posts.All()[1] {
		t.Errorf("GetPosts() = %+v, want %+v", all, posts.All())
	}
}

func TestGetPostsCorrupt(t *testing.T) {
	s, mr := newTestStore(t)
	if err := mr.Set(PostsKey(), "not json"); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := s.GetPosts(context.Background()); err == nil || ok {
		t.Errorf("GetPosts() = ok %v, err %v; want decode error", ok, err)
	}
}

func TestStoreErrorsWhenRedisDown(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()
	ctx := context.Background()

	if _, err := s.GetRendered(ctx, "abc"); err == nil {
		t.Error("GetRendered() should fail when redis is down")
	}
	if err := s.SaveRendered(ctx, "abc", "x", time.Minute); err == nil {
		t.Error("SaveRendered() should fail when redis is down")
	}
	if _, err := s.RenderedHashes(ctx); err == nil {
		t.Error("RenderedHashes() should fail when redis is down")
	}
	if err := s.DeleteRendered(ctx, "abc"); err == nil {
		t.Error("DeleteRendered() should fail when redis is down")
	}
	if _, _, err := s.GetPosts(ctx); err == nil {
		t.Error("GetPosts() should fail when redis is down")
	}
}
