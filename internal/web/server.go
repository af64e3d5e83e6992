package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/courtside/scorekeeper/internal/auth"
	"github.com/courtside/scorekeeper/internal/cloudsync"
	"github.com/courtside/scorekeeper/internal/coordinator"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	router      *chi.Mux
	coordinator *coordinator.Coordinator
	operator    *auth.OperatorConfig
	sync        *cloudsync.Client
	checks      map[string]Checker
	metrics     http.Handler
	sse         *SSEHub
	log         logrus.FieldLogger
	now         func() time.Time
	devMode     bool
}

// Config holds server configuration.
type Config struct {
	OperatorToken string
	DevMode       bool
	// Sync pulls history from a remote document. Nil disables /api/sync/pull.
	Sync *cloudsync.Client
	// Checks are reported by /healthz.
	Checks map[string]Checker
	// Metrics is served at /metrics when set.
	Metrics http.Handler
}

// NewServer creates a new HTTP server.
func NewServer(coord *coordinator.Coordinator, log logrus.FieldLogger, cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		coordinator: coord,
		operator:    auth.NewOperatorConfig(cfg.OperatorToken),
		sync:        cfg.Sync,
		checks:      cfg.Checks,
		metrics:     cfg.Metrics,
		log:         log.WithField("component", "web"),
		now:         time.Now,
		devMode:     cfg.DevMode,
	}
	s.sse = NewSSEHub(coord, s.log)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log, s.devMode))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/events", s.handleSSE)
		r.Get("/history", s.handleHistory)
		r.Get("/history/{gameID}", s.handleGameSummary)
		r.Get("/season", s.handleSeason)

		// Operator routes
		r.Group(func(r chi.Router) {
			r.Use(auth.OperatorMiddleware(s.operator))

			r.Post("/substitutes", s.handleAddSubstitute)
			r.Delete("/substitutes/{id}", s.handleRemoveSubstitute)
			r.Put("/participants/{id}/number", s.handleSetNumber)

			r.Post("/lineup/{id}/move", s.handleRequestMove)
			r.Post("/lineup/swap/{candidateID}", s.handleConfirmSwap)
			r.Delete("/lineup/swap", s.handleCancelSwap)

			r.Post("/participants/{id}/stats/{counter}", s.handleStatDelta)
			r.Put("/participants/{id}/stats", s.handleEditStats)
			r.Post("/participants/{id}/shots/{category}", s.handleRecordShot)
			r.Post("/participants/{id}/shots/{category}/assist", s.handleBeginAssist)
			r.Post("/participants/{id}/shots/{category}/undo", s.handleUndoShot)
			r.Post("/assist/confirm", s.handleConfirmAssist)
			r.Delete("/assist", s.handleCancelAssist)
			r.Post("/participants/{id}/rebounds", s.handleRecordRebound)
			r.Delete("/participants/{id}/rebounds", s.handleDecrementRebound)

			r.Post("/undo", s.handleUndo)
			r.Post("/reset", s.handleReset)

			r.Post("/game/start", s.handleStartGame)
			r.Post("/game/end", s.handleEndGame)
			r.Post("/game/save", s.handleSaveGame)

			// History transfer
			r.Get("/export", s.handleExport)
			r.Get("/export.xlsx", s.handleExportWorkbook)
			r.Post("/import", s.handleImport)
			r.Post("/sync/pull", s.handleSyncPull)
			r.Delete("/history", s.handleClearHistory)
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// StartSSE starts the SSE hub goroutine.
func (s *Server) StartSSE(events <-chan coordinator.Event) {
	go s.sse.Run(events)
}

// requestLogger logs each request through logrus once it completes. Requests
// are logged at debug level unless verbose is set.
func requestLogger(log logrus.FieldLogger, verbose bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			entry := log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("Request completed")
				return
			}
			if verbose {
				entry.Info("Request completed")
				return
			}
			entry.Debug("Request completed")
		})
	}
}
