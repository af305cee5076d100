package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all projection routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projections", func(r chi.Router) {
		r.Post("/wealth", h.HandleWealth)
		r.Post("/monte-carlo", h.HandleMonteCarlo)
	})
}
