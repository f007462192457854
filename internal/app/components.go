package app

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/postnav/internal/config"
	"github.com/MrSnakeDoc/postnav/internal/fetch"
	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/postnav"
	"github.com/MrSnakeDoc/postnav/internal/render"
)

// Components are the retrieval and conversion pieces shared by the server
// and the CLI.
type Components struct {
	Fetcher   postnav.Fetcher
	Converter postnav.Converter
	Options   []postnav.Option
	// RenderKey maps a source to its render-cache key. Nil without a cache.
	RenderKey func(src []byte) string
}

// NewFetcher reads posts over HTTP when FetchBaseURL is set, from PostsRoot otherwise.
func NewFetcher(cfg *config.Config) (postnav.Fetcher, error) {
	if cfg.FetchBaseURL == "" {
		return fetch.NewDir(cfg.PostsRoot), nil
	}
	f, err := fetch.NewHTTP(cfg.FetchBaseURL, &http.Client{Timeout: cfg.FetchTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create http fetcher: %w", err)
	}
	return f, nil
}

// BuildComponents wires the fetcher, the converter and the loader options.
// cache may be nil.
func BuildComponents(cfg *config.Config, cache render.Cache, log logger.Logger) (*Components, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}

	md := render.NewMarkdown(render.Options{
		HighlightStyle: cfg.HighlightStyle,
		Unsafe:         true,
		Sanitize:       cfg.Sanitize,
	})

	var converter postnav.Converter = md
	var renderKey func([]byte) string
	if cache != nil {
		cached := render.NewCached(md, cache, cfg.RenderCacheTTL, log)
		converter, renderKey = cached, cached.Key
	}

	return &Components{
		Fetcher:   fetcher,
		Converter: converter,
		RenderKey: renderKey,
		Options: []postnav.Option{
			postnav.WithPolicy(cfg.ClickPolicy),
			postnav.WithFetchTimeout(cfg.FetchTimeout),
			postnav.WithInlineErrors(cfg.InlineErrors),
		},
	}, nil
}

// NewLoader builds a loader from the components.
func (c *Components) NewLoader(log logger.Logger, extra ...postnav.Option) *postnav.Loader {
	opts := append(append([]postnav.Option{}, c.Options...), extra...)
	return postnav.NewLoader(c.Fetcher, c.Converter, log, opts...)
}
