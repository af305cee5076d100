// Package main is the entry point for the WealthTrack backend. It wires
// the databases, services, scheduler, and HTTP server, then runs until
// interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/backup"
	"github.com/codingisforpros/wealthtrack/internal/config"
	"github.com/codingisforpros/wealthtrack/internal/database"
	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/modules/analytics"
	analyticshandlers "github.com/codingisforpros/wealthtrack/internal/modules/analytics/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	assetshandlers "github.com/codingisforpros/wealthtrack/internal/modules/assets/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/auth"
	authhandlers "github.com/codingisforpros/wealthtrack/internal/modules/auth/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	dashboardhandlers "github.com/codingisforpros/wealthtrack/internal/modules/dashboard/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/gold"
	goldhandlers "github.com/codingisforpros/wealthtrack/internal/modules/gold/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/history"
	historyhandlers "github.com/codingisforpros/wealthtrack/internal/modules/history/handlers"
	"github.com/codingisforpros/wealthtrack/internal/modules/milestones"
	milestoneshandlers "github.com/codingisforpros/wealthtrack/internal/modules/milestones/handlers"
	projectionshandlers "github.com/codingisforpros/wealthtrack/internal/modules/projections/handlers"
	"github.com/codingisforpros/wealthtrack/internal/pricecache"
	"github.com/codingisforpros/wealthtrack/internal/scheduler"
	"github.com/codingisforpros/wealthtrack/internal/server"
	"github.com/codingisforpros/wealthtrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting WealthTrack")

	// Databases: wealth (users, assets, milestones), history (snapshots),
	// cache (gold rates).
	wealthDB := mustOpenDB(log, cfg, "wealth", database.ProfileCore)
	defer wealthDB.Close()
	historyDB := mustOpenDB(log, cfg, "history", database.ProfileHistory)
	defer historyDB.Close()
	cacheDB := mustOpenDB(log, cfg, "cache", database.ProfileCache)
	defer cacheDB.Close()

	// Event plumbing.
	bus := events.NewBus(log)
	eventMgr := events.NewManager(bus, log)

	// Repositories and services.
	userRepo := auth.NewRepository(wealthDB.Conn(), log)
	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenExpiry, log)

	cacheRepo := pricecache.NewRepository(cacheDB.Conn(), log)
	goldClient := gold.NewClient(cfg.GoldAPIURL, cfg.GoldAPIKey, cfg.GoldCacheTTL, cacheRepo, log)

	assetRepo := assets.NewRepository(wealthDB.Conn(), log)
	assetService := assets.NewService(assetRepo, goldClient, eventMgr, log)

	goldService := gold.NewService(goldClient, assetRepo, eventMgr, log)

	milestoneRepo := milestones.NewRepository(wealthDB.Conn(), log)
	milestoneService := milestones.NewService(milestoneRepo, eventMgr, log)

	dashboardService := dashboard.NewService(assetService, milestoneService, log)

	historyRepo := history.NewRepository(historyDB.Conn(), log)
	historyService := history.NewService(historyRepo, eventMgr, log)

	analyticsService := analytics.NewService(assetService, log)

	// Backup subsystem, active only when a bucket is configured.
	var backupService *backup.Service
	if cfg.Backup.Enabled() {
		s3Client, err := backup.NewS3Client(context.Background(), cfg.Backup, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup client")
		}
		backupService = backup.NewService(
			s3Client,
			[]backup.Source{
				{Name: "wealth", DB: wealthDB},
				{Name: "history", DB: historyDB},
				{Name: "cache", DB: cacheDB},
			},
			cfg.DataDir,
			cfg.Backup.RetentionDays,
			eventMgr,
			log,
		)
	} else {
		log.Info().Msg("Backups disabled, no S3 target configured")
	}

	// Background jobs.
	sched := scheduler.New(log)
	mustAddJob(log, sched, cfg.GoldRefreshSchedule, scheduler.NewGoldRefreshJob(goldService, log))
	mustAddJob(log, sched, cfg.SnapshotSchedule, scheduler.NewSnapshotJob(assetRepo, dashboardService, historyService, log))
	mustAddJob(log, sched, cfg.CacheCleanupSchedule, scheduler.NewCacheCleanupJob(cacheRepo, log))
	if backupService != nil {
		mustAddJob(log, sched, cfg.BackupSchedule, scheduler.NewBackupJob(backupService, log))
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Cfg:         cfg,
		Log:         log,
		WealthDB:    wealthDB,
		HistoryDB:   historyDB,
		CacheDB:     cacheDB,
		EventBus:    bus,
		AuthService: authService,
		AuthHandler: authhandlers.NewHandler(authService, log),
		Modules: []server.RouteRegistrar{
			assetshandlers.NewHandler(assetService, log),
			dashboardhandlers.NewHandler(dashboardService, log),
			milestoneshandlers.NewHandler(milestoneService, assetService, log),
			historyhandlers.NewHandler(historyService, assetService, log),
			goldhandlers.NewHandler(goldService, log),
			projectionshandlers.NewHandler(log),
			analyticshandlers.NewHandler(analyticsService, log),
		},
		Scheduler: sched,
		Backup:    backupService,
		Users:     userRepo,
		Assets:    assetRepo,
	})

	// Serve until interrupted.
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Goodbye")
}

// mustOpenDB opens one named database with its tuning profile and runs
// migrations, exiting on failure.
func mustOpenDB(log zerolog.Logger, cfg *config.Config, name string, profile database.DatabaseProfile) *database.DB {
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(name + ".db"),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		log.Fatal().Err(err).Str("database", name).Msg("Failed to open database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Str("database", name).Msg("Failed to migrate database")
	}
	return db
}

func mustAddJob(log zerolog.Logger, sched *scheduler.Scheduler, schedule string, job scheduler.Job) {
	if err := sched.AddJob(schedule, job); err != nil {
		log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to register job")
	}
}
