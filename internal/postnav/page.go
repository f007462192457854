package postnav

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/logger"
)

// Page is a mounted navigation: the post list it was built from, its links,
// and the content container its clicks write to.
type Page struct {
	loader  *Loader
	posts   domain.PostList
	links   []*Link
	content Content
	coord   coordinator
}

// Posts returns the list the page was built from.
func (p *Page) Posts() domain.PostList { return p.posts }

// Links returns a copy of the page's links, in navigation order.
func (p *Page) Links() []Link {
	out := make([]Link, len(p.links))
	for i, l := range p.links {
		out[i] = *l
	}
	return out
}

// Seq returns the sequence number of the most recent click.
func (p *Page) Seq() uint64 { return p.coord.current() }

// Click runs the click handler of the link at index.
func (p *Page) Click(ctx context.Context, index int) error {
	if index < 0 || index >= len(p.links) {
		return fmt.Errorf("post %d: %w", index, domain.ErrNotFound)
	}
	return p.links[index].Click(ctx)
}

// ClickHTML is Click returning the markup this click wrote to the content
// container. It is empty when the click wrote nothing, so a concurrent click
// can never leak into the result.
func (p *Page) ClickHTML(ctx context.Context, index int) (string, error) {
	if index < 0 || index >= len(p.links) {
		return "", fmt.Errorf("post %d: %w", index, domain.ErrNotFound)
	}
	return p.handleClick(ctx, index)
}

// View runs fn while no click can write to the content container. Readers of
// the mounted containers go through it.
func (p *Page) View(fn func()) { p.coord.locked(fn) }

// ClickAsync runs the click on its own goroutine. The returned channel
// receives exactly one result.
func (p *Page) ClickAsync(index int) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- p.Click(context.Background(), index)
	}()
	return done
}

func (p *Page) handleClick(ctx context.Context, index int) (written string, err error) {
	post, ok := p.posts.At(index)
	if !ok {
		return "", fmt.Errorf("post %d: %w", index, domain.ErrNotFound)
	}

	policy := p.loader.policy
	seq, reqCtx, release := p.coord.begin(ctx, policy)
	defer release()

	log := p.loader.log.With(
		logger.Int("index", index),
		logger.String("file", post.File),
		logger.Uint64("seq", seq))

	defer func() {
		if r := recover(); r != nil {
			log.Error("click handler panicked", logger.String("panic", fmt.Sprint(r)))
			written, err = "", fmt.Errorf("render %s: panic: %v", post.File, r)
		}
	}()

	start := time.Now()
	markup, err := p.retrieve(reqCtx, post)
	if err != nil {
		if p.coord.superseded(seq, policy) {
			log.Debug("click superseded during retrieval")
			return "", domain.ErrSuperseded
		}
		log.Warn("failed to load post", logger.Error(err))
		if p.loader.inlineErrors {
			alert := errorMarkup(post, err)
			committed, werr := p.coord.commit(seq, policy, func() error {
				return p.content.ReplaceHTML(alert)
			})
			if werr != nil {
				log.Warn("failed to write inline error", logger.Error(werr))
			} else if committed {
				written = alert
			}
		}
		return written, fmt.Errorf("load %s: %w", post.File, err)
	}

	committed, err := p.coord.commit(seq, policy, func() error {
		return p.content.ReplaceHTML(markup)
	})
	if err != nil {
		return "", fmt.Errorf("replace content with %s: %w", post.File, err)
	}
	if !committed {
		log.Debug("click superseded, result discarded")
		return "", domain.ErrSuperseded
	}

	log.Debug("post rendered", logger.Duration("elapsed", time.Since(start)))
	return markup, nil
}

func (p *Page) retrieve(ctx context.Context, post domain.Post) (string, error) {
	if p.loader.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.loader.fetchTimeout)
		defer cancel()
	}

	src, err := p.loader.fetcher.Fetch(ctx, post.File)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	markup, err := p.loader.converter.Convert(ctx, src)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	return markup, nil
}

func errorMarkup(post domain.Post, err error) string {
	msg := "could not load post"
	if errors.Is(err, domain.ErrNotFound) {
		msg = "post not found"
	} else if errors.Is(err, context.DeadlineExceeded) {
		msg = "timed out loading post"
	}
	return `<div class="postnav-error" role="alert">` +
		html.EscapeString(post.Title) + ": " + msg +
		`</div>`
}
