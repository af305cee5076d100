// Package handlers provides HTTP handlers for net-worth history.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/modules/auth"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	"github.com/codingisforpros/wealthtrack/internal/modules/history"
)

// Handler handles history HTTP requests
type Handler struct {
	service *history.Service
	assets  *assets.Service
	log     zerolog.Logger
}

// NewHandler creates a new history handler
func NewHandler(service *history.Service, assetService *assets.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		assets:  assetService,
		log:     log.With().Str("handler", "history").Logger(),
	}
}

// HandleQuery returns raw snapshots: GET /api/history?range=1M
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	rng := history.Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = history.RangeAll
	}

	snapshots, err := h.service.Query(userID, rng)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, snapshots)
}

// HandleAggregated returns weekly/monthly means: GET /api/history/aggregated?range=1Y&interval=monthly
func (h *Handler) HandleAggregated(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	rng := history.Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = history.RangeAll
	}
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "monthly"
	}

	points, err := h.service.Aggregate(userID, rng, interval)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, points)
}

// HandleTrend returns the moving-average trend: GET /api/history/trend
func (h *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	trend, err := h.service.TrendAnalysis(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, trend)
}

// HandleSnapshotNow records an on-demand snapshot: POST /api/history/snapshot
func (h *Handler) HandleSnapshotNow(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	list, err := h.assets.List(userID, "")
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snapshot, err := h.service.Record(userID, dashboard.Compute(list), time.Now().UTC())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, snapshot)
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
