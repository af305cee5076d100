// Package handlers provides HTTP handlers for milestones.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/modules/auth"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	"github.com/codingisforpros/wealthtrack/internal/modules/milestones"
)

// Handler handles milestone HTTP requests
type Handler struct {
	service *milestones.Service
	assets  *assets.Service
	log     zerolog.Logger
}

// NewHandler creates a new milestone handler
func NewHandler(service *milestones.Service, assetService *assets.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		assets:  assetService,
		log:     log.With().Str("handler", "milestones").Logger(),
	}
}

// HandleList returns the user's milestones with progress: GET /api/milestones
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	netWorth, err := h.currentNetWorth(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	list, err := h.service.List(userID, netWorth)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleCreate stores a new milestone and evaluates it immediately, so a
// target already below the current net worth is achieved on creation:
// POST /api/milestones
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var payload milestones.Milestone
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.Create(userID, payload)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if netWorth, err := h.currentNetWorth(userID); err == nil {
		if achieved, err := h.service.Evaluate(userID, netWorth); err == nil {
			for _, m := range achieved {
				if m.ID == created.ID {
					created = &m
				}
			}
		}
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate rewrites a milestone's target and re-evaluates achievement:
// PUT /api/milestones/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var payload milestones.Milestone
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.Update(userID, id, payload)
	if err != nil {
		if err == milestones.ErrMilestoneNotFound {
			h.writeError(w, http.StatusNotFound, "milestone not found")
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if netWorth, err := h.currentNetWorth(userID); err == nil {
		if achieved, err := h.service.Evaluate(userID, netWorth); err == nil {
			for _, m := range achieved {
				if m.ID == updated.ID {
					updated = &m
				}
			}
		}
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a milestone: DELETE /api/milestones/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.Delete(userID, chi.URLParam(r, "id")); err != nil {
		if err == milestones.ErrMilestoneNotFound {
			h.writeError(w, http.StatusNotFound, "milestone not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) currentNetWorth(userID string) (float64, error) {
	list, err := h.assets.List(userID, "")
	if err != nil {
		return 0, err
	}
	return dashboard.Compute(list).TotalNetWorth, nil
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
