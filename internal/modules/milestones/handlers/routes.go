package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all milestone routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/milestones", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}
