// Package handlers provides HTTP handlers for asset management.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/modules/auth"
)

// Handler handles asset HTTP requests
type Handler struct {
	service *assets.Service
	log     zerolog.Logger
}

// NewHandler creates a new asset handler
func NewHandler(service *assets.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "assets").Logger(),
	}
}

// HandleList returns the user's assets: GET /api/assets?type=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	assetType := assets.Type(r.URL.Query().Get("type"))
	list, err := h.service.List(userID, assetType)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one asset: GET /api/assets/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	asset, err := h.service.Get(userID, chi.URLParam(r, "id"))
	if err != nil {
		if err == assets.ErrAssetNotFound {
			h.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, asset)
}

// HandleCreate stores a new asset: POST /api/assets
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var payload assets.Asset
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.Create(userID, payload)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate rewrites an asset: PUT /api/assets/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var payload assets.Asset
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.Update(userID, chi.URLParam(r, "id"), payload)
	if err != nil {
		if err == assets.ErrAssetNotFound {
			h.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes an asset: DELETE /api/assets/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.service.Delete(userID, chi.URLParam(r, "id")); err != nil {
		if err == assets.ErrAssetNotFound {
			h.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleTypes lists the valid asset types: GET /api/assets/types
func (h *Handler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	types := make([]map[string]string, 0, len(assets.AllTypes))
	for _, t := range assets.AllTypes {
		types = append(types, map[string]string{
			"value": string(t),
			"label": t.DisplayName(),
		})
	}
	h.writeJSON(w, http.StatusOK, types)
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
