package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sautihub/sauti/internal/handler"
	"github.com/sautihub/sauti/internal/server/middleware"
	"github.com/sautihub/sauti/internal/service"
	"github.com/sautihub/sauti/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
	}
}

// Server is the top-level HTTP server for the portal. It owns the Chi
// router, the store, and the authentication service.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, authSvc *service.AuthService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		authSvc: authSvc,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	// --- Health checks (no auth required) ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	authenticate := middleware.Authenticate(s.authSvc)
	requireSuper := middleware.RequireSuperAdmin(s.authSvc)

	authHandler := handler.NewAuthHandler(s.authSvc)
	adminHandler := handler.NewAdminHandler(s.store, s.authSvc)
	feedbackHandler := handler.NewFeedbackHandler(s.store)
	contentHandler := handler.NewContentHandler(s.store)
	dashboardHandler := handler.NewDashboardHandler(s.store)

	r.Route("/api", func(r chi.Router) {

		// Authentication
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Get("/verify", authHandler.Verify)
			})
		})

		// Admin management. The super-admin gate runs before any handler
		// touches request input.
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requireSuper)

			r.Get("/all", adminHandler.ListAdmins)
			r.Post("/add", adminHandler.AddAdmin)
			r.Delete("/{adminID}", adminHandler.RemoveAdmin)
		})

		// Citizen feedback (public)
		r.Route("/feedback", func(r chi.Router) {
			r.Post("/submit", feedbackHandler.Submit)
			r.Get("/summary", feedbackHandler.Summary)
			r.Get("/by-region", feedbackHandler.ByRegion)
		})

		// Slideshow: public reads, authenticated mutations
		r.Route("/slides", func(r chi.Router) {
			r.Get("/", contentHandler.ListSlides)
			r.Get("/active", contentHandler.ListActiveSlides)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/upload", contentHandler.UploadSlide)
				r.Patch("/{slideID}/toggle", contentHandler.ToggleSlide)
				r.Delete("/{slideID}", contentHandler.DeleteSlide)
			})
		})

		// Hero image: public read, authenticated replace
		r.Route("/hero", func(r chi.Router) {
			r.Get("/", contentHandler.GetHero)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", contentHandler.SetHero)
			})
		})

		// Dashboard aggregates (public, embedded in the campaign site)
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/by-subcounty", dashboardHandler.BySubcounty)
			r.Get("/by-ward", dashboardHandler.ByWard)
			r.Get("/by-village", dashboardHandler.ByVillage)
			r.Get("/quick-stats", dashboardHandler.QuickStats)
		})
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

// handleReadyz is a readiness probe. Returns 200 when the store is
// reachable, or 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded"}`)) //nolint:errcheck
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
