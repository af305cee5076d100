// Package handlers provides HTTP handlers for gold rates.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/gold"
)

// Handler handles gold HTTP requests
type Handler struct {
	service *gold.Service
	log     zerolog.Logger
}

// NewHandler creates a new gold handler
func NewHandler(service *gold.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "gold").Logger(),
	}
}

// HandlePrice returns the current rate for a purity: GET /api/gold/price?purity=
func (h *Handler) HandlePrice(w http.ResponseWriter, r *http.Request) {
	purity := r.URL.Query().Get("purity")
	if purity == "" {
		purity = "24k"
	}

	entry, err := h.service.CurrentRate(purity)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, entry)
}

// HandleRefresh reprices all gold assets: POST /api/gold/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.RefreshAll()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "refreshed",
		"assets_updated": updated,
	})
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
