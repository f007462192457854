// Package postnav builds a navigation list of posts and renders the selected
// post's Markdown into a content pane.
//
// The navigation and content containers are passed in explicitly, so the same
// loader drives a server-side html document, a CLI render, or a test fake.
package postnav

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/logger"
)

// PlaceholderHref is the non-navigating destination given to every link.
const PlaceholderHref = "#"

// Nav is the navigation container. AppendLink adds l as its last child.
type Nav interface {
	AppendLink(l *Link) error
}

// Content is the content container. ReplaceHTML replaces its entire contents.
type Content interface {
	ReplaceHTML(markup string) error
}

// Fetcher retrieves the raw text of a resource addressed by a relative path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Converter turns Markdown into HTML markup.
type Converter interface {
	Convert(ctx context.Context, src []byte) (string, error)
}

// Link is one navigation entry.
type Link struct {
	Index int
	Text  string
	Href  string
	Attrs map[string]string

	onClick func(ctx context.Context) error
}

// Click invokes the handler registered for this link.
// A link that was never mounted by a Loader does nothing.
func (l *Link) Click(ctx context.Context) error {
	if l.onClick == nil {
		return nil
	}
	return l.onClick(ctx)
}

// Loader mounts post lists onto containers.
type Loader struct {
	fetcher      Fetcher
	converter    Converter
	log          logger.Logger
	policy       Policy
	fetchTimeout time.Duration
	inlineErrors bool
	linkAttrs    func(i int, p domain.Post) map[string]string
}

type Option func(*Loader)

// WithPolicy selects how overlapping clicks on one page are resolved.
func WithPolicy(p Policy) Option {
	return func(l *Loader) { l.policy = p }
}

// WithFetchTimeout bounds each retrieval. Zero means no timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) { l.fetchTimeout = d }
}

// WithInlineErrors makes a failed click write a short error message into the
// content pane instead of leaving it unchanged.
func WithInlineErrors(enabled bool) Option {
	return func(l *Loader) { l.inlineErrors = enabled }
}

// WithLinkAttrs adds extra attributes to each link (e.g. hx-get for the web UI).
func WithLinkAttrs(fn func(i int, p domain.Post) map[string]string) Option {
	return func(l *Loader) { l.linkAttrs = fn }
}

// NewLoader creates a loader. log may be nil.
func NewLoader(fetcher Fetcher, converter Converter, log logger.Logger, opts ...Option) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	l := &Loader{
		fetcher:   fetcher,
		converter: converter,
		log:       log,
		policy:    LatestClick,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the click policy used by pages built by this loader.
func (l *Loader) Policy() Policy { return l.policy }

// Load builds the navigation for posts: one link per entry, in order, each
// appended as the last child of nav. The content container is only stored;
// it is first written by a click.
func (l *Loader) Load(posts domain.PostList, nav Nav, content Content) (*Page, error) {
	if nav == nil {
		return nil, fmt.Errorf("navigation container: %w", domain.ErrMissingMount)
	}
	if content == nil {
		return nil, fmt.Errorf("content container: %w", domain.ErrMissingMount)
	}

	page := &Page{
		loader:  l,
		posts:   posts,
		content: content,
		links:   make([]*Link, 0, posts.Len()),
	}

	for i, post := range posts.All() {
		link := &Link{
			Index: i,
			Text:  post.Title,
			Href:  PlaceholderHref,
		}
		if l.linkAttrs != nil {
			link.Attrs = l.linkAttrs(i, post)
		}
		idx := i
		link.onClick = func(ctx context.Context) error {
			_, err := page.handleClick(ctx, idx)
			return err
		}
		if err := nav.AppendLink(link); err != nil {
			return nil, fmt.Errorf("append link %d (%s): %w", i, post.Title, err)
		}
		page.links = append(page.links, link)
	}

	l.log.Debug("navigation built",
		logger.Int("posts", posts.Len()),
		logger.String("policy", l.policy.String()))

	return page, nil
}
