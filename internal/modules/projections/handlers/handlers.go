// Package handlers provides HTTP handlers for wealth projections.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/projections"
)

// Handler handles projection HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new projections handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "projections").Logger(),
	}
}

// wealthRequest is the payload for the deterministic projector.
type wealthRequest struct {
	Projections []projections.Input `json:"projections"`
}

// HandleWealth runs the compound-growth projector: POST /api/projections/wealth
func (h *Handler) HandleWealth(w http.ResponseWriter, r *http.Request) {
	var payload wealthRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := projections.Aggregate(payload.Projections)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleMonteCarlo runs the stochastic simulator: POST /api/projections/monte-carlo
func (h *Handler) HandleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var payload projections.MonteCarloInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := projections.RunMonteCarlo(payload)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"detail": message})
}
