package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/mw"
)

func init() { Register(registerAPI, mw.CORS()) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api/posts", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Get("/", handlers.ListPosts(d))
		r.Get("/{index}/html", handlers.RenderPost(d))
	})
}
