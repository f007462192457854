package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
)

// HighlightCSSPath is where the code highlighting stylesheet is served.
const HighlightCSSPath = "/static/highlight.css"

// HighlightCSS serves the chroma stylesheet computed at startup.
func HighlightCSS(d deps.Deps) http.HandlerFunc {
	css := []byte(d.HighlightCSS)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(css)
	}
}
