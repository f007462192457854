package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
	Posts int  `json:"posts"`
}

// Readyz reports ready once a post list has been loaded. An empty list counts.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, ok := d.MemoryIndex.Posts()

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{
			Ready: ok,
			Posts: posts.Len(),
		})
	}
}
