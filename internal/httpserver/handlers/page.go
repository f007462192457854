package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/postnav/internal/dom"
	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/postnav/internal/index"
	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/postnav"
)

// PageIDHeader carries the id of the page session a response belongs to.
const PageIDHeader = "X-Page-ID"

const defaultTitle = "Posts"

// Head markup of the page shell. htmx turns the hx-get attributes of the
// navigation links into fetches that swap the content pane.
const shellHead = `<meta name="viewport" content="width=device-width, initial-scale=1">` +
	`<link rel="stylesheet" href="` + HighlightCSSPath + `">` +
	`<script src="https://unpkg.com/htmx.org@1.9.12" crossorigin="anonymous"></script>`

// ClickPath is the route a navigation link of page id calls for post i.
func ClickPath(id string, i int) string {
	return fmt.Sprintf("/pages/%s/posts/%d", id, i)
}

// NewPage starts a page session: a fresh shell document with the navigation
// built from the current post list. The content pane starts empty.
func NewPage(d deps.Deps) http.HandlerFunc {
	title := d.Title
	if title == "" {
		title = defaultTitle
	}

	return func(w http.ResponseWriter, r *http.Request) {
		posts, ok := d.MemoryIndex.Posts()
		if !ok {
			http.Error(w, "posts not loaded yet", http.StatusServiceUnavailable)
			return
		}

		id := uuid.NewString()
		doc := dom.NewShell(title, shellHead)
		nav, content := dom.Mount(doc)

		opts := append([]postnav.Option{}, d.LoaderOptions...)
		opts = append(opts, postnav.WithLinkAttrs(func(i int, _ domain.Post) map[string]string {
			return map[string]string{
				"hx-get":    ClickPath(id, i),
				"hx-target": "#" + dom.ContentID,
				"hx-swap":   "innerHTML",
			}
		}))
		loader := postnav.NewLoader(d.Fetcher, d.Converter, d.Logger.With(logger.String("page_id", id)), opts...)

		page, err := loader.Load(posts, nav, content)
		if err != nil {
			d.Logger.Error("failed to load page", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		d.MemoryIndex.AddPage(&index.PageEntry{ID: id, Doc: doc, Page: page})
		d.Logger.Debug("page session created",
			logger.String("page_id", id),
			logger.Int("posts", posts.Len()))

		var buf bytes.Buffer
		err = doc.Render(&buf)
		writeDocument(w, d, id, buf.String(), err)
	}
}

// PageDocument renders the current state of a page session.
func PageDocument(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		entry, ok := d.MemoryIndex.TouchPage(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		var (
			buf bytes.Buffer
			err error
		)
		entry.Page.View(func() { err = entry.Doc.Render(&buf) })
		writeDocument(w, d, id, buf.String(), err)
	}
}

// ClickPost runs the click handler of post {index} on page {id} and answers
// with the markup that click wrote. A click that wrote nothing answers with
// the unchanged content pane.
func ClickPost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		entry, ok := d.MemoryIndex.TouchPage(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		i, ok := indexParam(r)
		if !ok {
			http.Error(w, "invalid post index", http.StatusBadRequest)
			return
		}

		markup, err := entry.Page.ClickHTML(r.Context(), i)
		status := statusFor(err)
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		if err != nil && status != http.StatusNotFound {
			d.Logger.Warn("click failed",
				logger.String("page_id", id),
				logger.Int("index", i),
				logger.Error(err))
		}

		if err != nil && markup == "" {
			entry.Page.View(func() {
				markup = entry.Doc.ElementByID(dom.ContentID).InnerHTML()
			})
		}

		w.Header().Set(PageIDHeader, id)
		writeHTML(w, status, markup)
	}
}

func writeDocument(w http.ResponseWriter, d deps.Deps, id, doc string, err error) {
	if err != nil {
		d.Logger.Error("failed to render document", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set(PageIDHeader, id)
	w.Header().Set("Cache-Control", "no-store")
	writeHTML(w, http.StatusOK, doc)
}
