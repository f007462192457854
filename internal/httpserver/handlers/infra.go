package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	PostsLoaded *int   `json:"posts_loaded,omitempty"`
	Pages       *int   `json:"pages,omitempty"`
	Source      string `json:"source,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the post list, the page sessions and redis.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, loaded := d.MemoryIndex.Posts()
		count := posts.Len()
		pages := d.MemoryIndex.PageCount()

		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		source := d.PostsFile
		if source == "" {
			source = "built-in"
		}

		components := map[string]componentStatus{
			"posts": {
				OK:          loaded,
				PostsLoaded: &count,
				Source:      source,
				LastReload:  lastReloadStr,
			},
			"pages": {
				OK:    true,
				Pages: &pages,
			},
			"redis": checkRedis(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if posts, exists := components["posts"]; exists && !posts.OK {
		return "critical" // nothing to navigate
	}

	// Redis down only costs the render cache and the snapshot
	if redis, exists := components["redis"]; exists && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}

	return "optimal"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "render-cache-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "render-cache-disabled",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "render-cache-enabled",
	}
}
