// Package server wires the application together: it builds the dependency
// graph (storage → services → handlers), defines the route table, and runs
// the HTTP server with graceful shutdown. main.go only reads configuration
// and calls into here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/auth"
	"github.com/healthtrack/backend/internal/handler"
	"github.com/healthtrack/backend/internal/middleware"
	sqliteRepo "github.com/healthtrack/backend/internal/repository/sqlite"
	"github.com/healthtrack/backend/internal/service"
)

// Config holds everything the server needs, assembled from the environment
// in main.go. JWTSecret is required: without a usable signing secret no
// signup or login can complete, so New refuses to build the server at all
// rather than failing per-request.
type Config struct {
	Port           int
	DBPath         string
	JWTSecret      string
	AllowedOrigins []string
}

// Server owns the router and the database connection. The DB is closed
// during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph and the route table.
//
// Services receive repository interfaces, handlers receive services; nothing
// below the handler layer ever sees HTTP, and nothing above the repository
// layer ever sees SQL.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, apperror.Configuration("signing secret is not configured")
	}
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("configuring token service: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(tokens)

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Route table:
//
//	GET    /                               liveness (public)
//	GET    /api                            API info (public)
//	POST   /api/auth/signup                create account (public)
//	POST   /api/auth/login                 authenticate (public)
//	GET    /api/auth/me                    current user (bearer token)
//	POST   /api/activities                 log an activity (bearer token)
//	GET    /api/activities                 list own activities (bearer token)
//	DELETE /api/activities/{id}            delete own activity (bearer token)
//	GET    /api/activities/stats/summary   aggregate summary (bearer token)
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(s.config.AllowedOrigins))

	passwords := auth.NewPasswordService()
	accountService := service.NewAccountService(s.db.Users(), passwords, tokens, s.logger)
	activityService := service.NewActivityService(s.db.Activities(), s.logger)

	authHandler := handler.NewAuthHandler(accountService, s.logger)
	activityHandler := handler.NewActivityHandler(activityService, s.logger)

	requireAuth := auth.RequireAuth(tokens, handler.WriteError)

	s.router.Get("/", handler.HandleRoot)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", handler.HandleAPIInfo)

		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", authHandler.HandleMe)

			r.Post("/activities", activityHandler.HandleCreate)
			r.Get("/activities", activityHandler.HandleList)
			r.Delete("/activities/{id}", activityHandler.HandleDelete)
			r.Get("/activities/stats/summary", activityHandler.HandleStats)
		})
	})
}

// Handler exposes the router. Used by tests to drive the server through
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources (the database). Start calls this on
// shutdown; tests that never call Start must call it themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
