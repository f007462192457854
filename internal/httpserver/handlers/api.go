package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/postnav/internal/logger"
)

type postResponse struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	File  string `json:"file"`
}

// ListPosts returns the current post list in navigation order.
func ListPosts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, ok := d.MemoryIndex.Posts()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "posts not loaded yet"})
			return
		}

		out := make([]postResponse, 0, posts.Len())
		for i, p := range posts.All() {
			out = append(out, postResponse{Index: i, Title: p.Title, File: p.File})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// RenderPost fetches and converts one post without any page session.
func RenderPost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, ok := d.MemoryIndex.Posts()
		if !ok {
			http.Error(w, "posts not loaded yet", http.StatusServiceUnavailable)
			return
		}
		i, ok := indexParam(r)
		if !ok {
			http.Error(w, "invalid post index", http.StatusBadRequest)
			return
		}
		post, ok := posts.At(i)
		if !ok {
			http.NotFound(w, r)
			return
		}

		markup, err := renderPost(r.Context(), d, post)
		if err != nil {
			status := statusFor(err)
			if status != http.StatusNotFound {
				d.Logger.Warn("render failed",
					logger.String("file", post.File),
					logger.Error(err))
			}
			http.Error(w, http.StatusText(status), status)
			return
		}
		writeHTML(w, http.StatusOK, markup)
	}
}

func renderPost(ctx context.Context, d deps.Deps, post domain.Post) (string, error) {
	src, err := d.Fetcher.Fetch(ctx, post.File)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", post.File, err)
	}
	markup, err := d.Converter.Convert(ctx, src)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", post.File, err)
	}
	return markup, nil
}
