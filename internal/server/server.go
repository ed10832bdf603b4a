// Package server exposes the assessment engine, email capture and the admin
// reports over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/fluentplan/internal/coach"
	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/newsletter"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Config holds the listener and cache settings.
type Config struct {
	Addr        string
	CacheSize   int
	CORSOrigins []string
}

// Deps are the collaborators of the server. Backend is required; nil
// Engine, Counter, Coach, Auth and Logger fall back to working defaults.
// A nil Outbox leaves queued subscriptions for `fluentplan deliver`.
type Deps struct {
	Backend  store.Backend
	Engine   *scoring.Engine
	Counter  segments.Counter
	Coach    *coach.Service
	Outbox   *newsletter.Outbox
	Auth     *Auth
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	addr        string
	origins     []string
	assessments store.AssessmentRepo
	deliveries  store.DeliveryRepo
	engine      *scoring.Engine
	evals       *evalCache
	counter     segments.Counter
	coach       *coach.Service
	outbox      *newsletter.Outbox
	auth        *Auth
	registry    *prometheus.Registry
	metrics     *Metrics
	logger      *slog.Logger
	handler     http.Handler
}

// New wires a server. It does not start listening.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Backend == nil {
		return nil, errors.New("server: backend is required")
	}
	engine := deps.Engine
	if engine == nil {
		engine = scoring.New()
	}
	evals, err := newEvalCache(engine, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	counter := deps.Counter
	if counter == nil {
		counter = segments.NewMemoryCounter(nil)
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		addr:        cfg.Addr,
		origins:     origins,
		assessments: deps.Backend.Assessments(),
		deliveries:  deps.Backend.Deliveries(),
		engine:      engine,
		evals:       evals,
		counter:     counter,
		coach:       deps.Coach,
		outbox:      deps.Outbox,
		auth:        deps.Auth,
		registry:    reg,
		metrics:     MustNewMetrics(reg),
		logger:      logging.OrDefault(deps.Logger),
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(s.observeMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/questions", s.handleQuestions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/evaluate", s.handleEvaluate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments", s.handleCreateAssessment).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/email", s.handleCaptureEmail).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{id}/coach", s.handleCoach).Methods("POST", "OPTIONS")
	v1.HandleFunc("/admin/login", s.handleLogin).Methods("POST", "OPTIONS")

	// Admin routes
	admin := v1.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAdmin)

	admin.HandleFunc("/assessments", s.handleListAssessments).Methods("GET", "OPTIONS")
	admin.HandleFunc("/assessments/{id}", s.handleGetAssessment).Methods("GET", "OPTIONS")
	admin.HandleFunc("/assessments/{id}", s.handleDeleteAssessment).Methods("DELETE", "OPTIONS")
	admin.HandleFunc("/segments", s.handleSegments).Methods("GET", "OPTIONS")
	admin.HandleFunc("/segments/live", s.handleLiveSegments).Methods("GET", "OPTIONS")
	admin.HandleFunc("/analysis/{questionID}", s.handleAnalysis).Methods("GET", "OPTIONS")
	admin.HandleFunc("/export.csv", s.handleExportCSV).Methods("GET", "OPTIONS")
	admin.HandleFunc("/emails/{id}", s.handleEmail).Methods("GET", "OPTIONS")

	return r
}

// Run serves HTTP and drains the newsletter outbox until ctx is cancelled,
// then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	if s.outbox != nil {
		g.Go(func() error {
			err := s.outbox.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
