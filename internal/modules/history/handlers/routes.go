package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all history routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.HandleQuery)
		r.Get("/aggregated", h.HandleAggregated)
		r.Get("/trend", h.HandleTrend)
		r.Post("/snapshot", h.HandleSnapshotNow)
	})
}
