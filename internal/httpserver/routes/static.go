package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/mw"
)

func init() { Register(registerStatic, mw.CORS()) }

// registerStatic serves the raw post files the way a static host would, so a
// browser-side loader can fetch them by their relative path.
func registerStatic(r chi.Router, d deps.Deps) {
	r.Get(handlers.HighlightCSSPath, handlers.HighlightCSS(d))

	if d.PostsRoot == "" {
		return
	}
	files := http.FileServer(http.Dir(d.PostsRoot))
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/posts/*", files.ServeHTTP)
}
