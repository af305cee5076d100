package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterPublicRoutes registers the unauthenticated auth routes
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
	})
}

// RegisterProtectedRoutes registers the routes that require a valid token
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.HandleMe)
}
