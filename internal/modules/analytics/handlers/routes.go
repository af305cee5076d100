package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/performance", h.HandlePerformance)
		r.Get("/tax", h.HandleTax)
	})
}
