package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/mw"
)

func init() { Register(registerPages) }

func registerPages(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		// Page loads build a session each; clicks are cheap and bursty.
		pageLimit := mw.RateLimit(mw.RateLimitConfig{
			Scope:      "page",
			Burst:      d.RateBurst,
			PerMinute:  d.RatePerMin,
			MaxClients: 10000,
			TrustProxy: d.TrustProxy,
			Logger:     d.Logger,
		})
		clickLimit := mw.RateLimit(mw.RateLimitConfig{
			Scope:      "click",
			Burst:      d.ClickRateBurst,
			PerMinute:  d.ClickRatePerMin,
			MaxClients: 10000,
			TrustProxy: d.TrustProxy,
			Logger:     d.Logger,
		})

		r.With(pageLimit).Get("/", handlers.NewPage(d))
		r.With(pageLimit).Get("/pages/{id}", handlers.PageDocument(d))
		r.With(clickLimit).Get("/pages/{id}/posts/{index}", handlers.ClickPost(d))
	})
}
