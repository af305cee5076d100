// Package server provides the HTTP server and routing for WealthTrack.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/backup"
	"github.com/codingisforpros/wealthtrack/internal/config"
	"github.com/codingisforpros/wealthtrack/internal/database"
	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/modules/auth"
	"github.com/codingisforpros/wealthtrack/internal/scheduler"
)

// RouteRegistrar mounts a module's routes onto a router.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Config holds everything the server needs.
type Config struct {
	Cfg *config.Config
	Log zerolog.Logger

	WealthDB  *database.DB
	HistoryDB *database.DB
	CacheDB   *database.DB

	EventBus *events.Bus

	AuthService *auth.Service
	AuthHandler AuthRoutes

	// Module handlers mounted inside the authenticated /api group.
	Modules []RouteRegistrar

	Scheduler *scheduler.Scheduler
	Backup    *backup.Service

	Users  Counter
	Assets Counter
}

// AuthRoutes is the split registration surface of the auth handler.
type AuthRoutes interface {
	RegisterPublicRoutes(r chi.Router)
	RegisterProtectedRoutes(r chi.Router)
}

// Counter reports a table row count, used by the status endpoint.
type Counter interface {
	Count() (int, error)
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	authService    *auth.Service
	authHandler    AuthRoutes
	modules        []RouteRegistrar
	systemHandlers *SystemHandlers
	eventsStream   *EventsStreamHandler
	eventsWS       *EventsWSHandler
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		cfg:         cfg.Cfg,
		authService: cfg.AuthService,
		authHandler: cfg.AuthHandler,
		modules:     cfg.Modules,
		systemHandlers: NewSystemHandlers(SystemConfig{
			Log:       cfg.Log,
			DataDir:   cfg.Cfg.DataDir,
			WealthDB:  cfg.WealthDB,
			HistoryDB: cfg.HistoryDB,
			CacheDB:   cfg.CacheDB,
			Scheduler: cfg.Scheduler,
			Backup:    cfg.Backup,
			Users:     cfg.Users,
			Assets:    cfg.Assets,
		}),
		eventsStream: NewEventsStreamHandler(cfg.EventBus, cfg.Log),
		eventsWS:     NewEventsWSHandler(cfg.EventBus, cfg.Log),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !s.cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Event feeds use the stream variant of the auth middleware:
		// EventSource and browser WebSocket clients cannot set
		// Authorization headers, so the token may arrive as ?token=.
		r.Group(func(r chi.Router) {
			r.Use(s.authService.StreamMiddleware)
			r.Get("/events/stream", s.eventsStream.ServeHTTP)
			r.Get("/events/ws", s.eventsWS.ServeHTTP)
		})

		s.authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)

			s.authHandler.RegisterProtectedRoutes(r)
			for _, m := range s.modules {
				m.RegisterRoutes(r)
			}
			s.systemHandlers.RegisterRoutes(r)
		})
	})
}

// handleHealth is the liveness probe: GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
