package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/codingisforpros/wealthtrack/internal/backup"
	"github.com/codingisforpros/wealthtrack/internal/database"
	"github.com/codingisforpros/wealthtrack/internal/scheduler"
	"github.com/codingisforpros/wealthtrack/internal/version"
)

// SystemConfig holds the dependencies of the system endpoints.
type SystemConfig struct {
	Log       zerolog.Logger
	DataDir   string
	WealthDB  *database.DB
	HistoryDB *database.DB
	CacheDB   *database.DB
	Scheduler *scheduler.Scheduler
	Backup    *backup.Service
	Users     Counter
	Assets    Counter
}

// SystemHandlers serves status, maintenance, and job trigger endpoints.
type SystemHandlers struct {
	log       zerolog.Logger
	dataDir   string
	wealthDB  *database.DB
	historyDB *database.DB
	cacheDB   *database.DB
	scheduler *scheduler.Scheduler
	backup    *backup.Service
	users     Counter
	assets    Counter
	startTime time.Time
}

// NewSystemHandlers creates system handlers.
func NewSystemHandlers(cfg SystemConfig) *SystemHandlers {
	return &SystemHandlers{
		log:       cfg.Log.With().Str("handler", "system").Logger(),
		dataDir:   cfg.DataDir,
		wealthDB:  cfg.WealthDB,
		historyDB: cfg.HistoryDB,
		cacheDB:   cfg.CacheDB,
		scheduler: cfg.Scheduler,
		backup:    cfg.Backup,
		users:     cfg.Users,
		assets:    cfg.Assets,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the system and job endpoints
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", h.HandleStatus)
		r.Get("/database-stats", h.HandleDatabaseStats)
		r.Get("/disk-usage", h.HandleDiskUsage)
		r.Get("/backups", h.HandleListBackups)
		r.Post("/backups", h.HandleTriggerBackup)
	})
	r.Post("/jobs/{name}", h.HandleTriggerJob)
}

// StatusResponse is the system status payload.
type StatusResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Users         int     `json:"users"`
	Assets        int     `json:"assets"`
	LastGoldSync  *string `json:"last_gold_sync"`
}

// HandleStatus reports process and data health: GET /api/system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	users, err := h.users.Count()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to count users")
	}
	assetCount, err := h.assets.Count()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to count assets")
	}

	resp := StatusResponse{
		Status:        "ok",
		Version:       version.Version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Users:         users,
		Assets:        assetCount,
		LastGoldSync:  h.lastGoldSync(),
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleDatabaseStats reports page-level stats per database:
// GET /api/system/database-stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]map[string]int64, 3)
	for _, db := range []*database.DB{h.wealthDB, h.historyDB, h.cacheDB} {
		if db == nil {
			continue
		}
		dbStats, err := db.Stats(r.Context())
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to collect database stats")
			continue
		}
		stats[db.Name()] = dbStats
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// DiskUsageResponse reports data directory sizes in MB.
type DiskUsageResponse struct {
	DataDirMB float64 `json:"data_dir_mb"`
	TotalMB   float64 `json:"total_mb"`
}

// HandleDiskUsage reports on-disk footprint: GET /api/system/disk-usage
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	dataSize := h.dirSizeMB(h.dataDir)
	h.writeJSON(w, http.StatusOK, DiskUsageResponse{
		DataDirMB: dataSize,
		TotalMB:   dataSize,
	})
}

// HandleListBackups lists the stored archives: GET /api/system/backups
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		h.writeError(w, http.StatusServiceUnavailable, "backups are not configured")
		return
	}

	backups, err := h.backup.ListBackups(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, backups)
}

// HandleTriggerBackup runs a backup cycle now: POST /api/system/backups
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		h.writeError(w, http.StatusServiceUnavailable, "backups are not configured")
		return
	}

	h.log.Info().Msg("Manual backup triggered")
	if err := h.backup.Backup(r.Context()); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// HandleTriggerJob runs a scheduled job now: POST /api/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		h.writeError(w, http.StatusServiceUnavailable, "scheduler is not running")
		return
	}

	name := chi.URLParam(r, "name")
	h.log.Info().Str("job", name).Msg("Manual job trigger")

	if err := h.scheduler.Trigger(name); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "completed",
		"job":    name,
	})
}

// systemStats samples CPU and RAM usage. A 100ms CPU window keeps the
// status endpoint fast.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

// lastGoldSync reads the most recent rate fetch from the cache database.
func (h *SystemHandlers) lastGoldSync() *string {
	if h.cacheDB == nil {
		return nil
	}

	var fetchedAt sql.NullTime
	err := h.cacheDB.QueryRow(`SELECT MAX(fetched_at) FROM gold_price_cache`).Scan(&fetchedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			h.log.Warn().Err(err).Msg("Failed to read last gold sync")
		}
		return nil
	}
	if !fetchedAt.Valid {
		return nil
	}

	formatted := fetchedAt.Time.UTC().Format(time.RFC3339)
	return &formatted
}

// dirSizeMB walks a directory and sums file sizes.
func (h *SystemHandlers) dirSizeMB(dirPath string) float64 {
	var totalSize int64
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}
	return float64(totalSize) / 1024 / 1024
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *SystemHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"detail": message})
}
