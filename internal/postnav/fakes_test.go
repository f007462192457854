package postnav

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/postnav/internal/domain"
)

type fakeNav struct {
	links []*Link
}

func (n *fakeNav) AppendLink(l *Link) error {
	n.links = append(n.links, l)
	return nil
}

type fakeContent struct {
	mu     sync.Mutex
	html   string
	writes int
}

func (c *fakeContent) ReplaceHTML(markup string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.html = markup
	c.writes++
	return nil
}

func (c *fakeContent) snapshot() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.html, c.writes
}

// fakeFetcher serves files from a map. A path listed in gates blocks until its
// gate is closed; started receives the path once the fetch is entered.
type fakeFetcher struct {
	mu        sync.Mutex
	files     map[string]string
	gates     map[string]chan struct{}
	started   chan string
	ignoreCtx bool
	calls     int
}

func (f *fakeFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gates[path]
	body, ok := f.files[path]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- path
	}
	if gate != nil {
		if f.ignoreCtx {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("fetch %s: %w", path, domain.ErrNotFound)
	}
	return []byte(body), nil
}

type wrapConverter struct{}

func (wrapConverter) Convert(_ context.Context, src []byte) (string, error) {
	return "<p>" + string(src) + "</p>", nil
}

type failingConverter struct{}

func (failingConverter) Convert(context.Context, []byte) (string, error) {
	return "", errors.New("boom")
}

type panickingConverter struct{}

func (panickingConverter) Convert(context.Context, []byte) (string, error) {
	panic("converter exploded")
}
