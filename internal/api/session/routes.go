package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Post("/{id}/configure", h.Configure)
		r.Post("/{id}/ask", h.Ask)
		r.Get("/{id}/messages", h.GetMessages)
		r.Get("/{id}/sources", h.GetSources)
		r.Post("/{id}/reset", h.Reset)
		r.Get("/{id}/export", h.Export)
	})
}
