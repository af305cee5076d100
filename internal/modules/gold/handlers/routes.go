package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all gold routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/gold", func(r chi.Router) {
		r.Get("/price", h.HandlePrice)
		r.Post("/refresh", h.HandleRefresh)
	})
}
