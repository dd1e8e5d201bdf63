// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where every
// dependency is constructed and connected:
//
//	sqlite.DB → services (auth, feed) → handlers → chi routes
//
// Keeping the wiring out of main.go makes the server testable (tests can
// build a router without running main) and keeps main minimal.
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

	"github.com/sakif/microfeed/internal/auth"
	"github.com/sakif/microfeed/internal/handler"
	"github.com/sakif/microfeed/internal/middleware"
	sqliteRepo "github.com/sakif/microfeed/internal/repository/sqlite"
	"github.com/sakif/microfeed/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string // path to the SQLite database file
	JWTSecret string // HMAC secret for session tokens
}

// Server owns the router and the database handle. The DB is closed during
// graceful shutdown to flush the WAL and release the file lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled.
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete *sqlite.DB type), handlers get services.
// The handler never touches the database; the service never touches HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured router, mainly for tests driving the server
// through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	POST /api/register                  → create account + session     (public)
//	POST /api/login                     → open session                 (public)
//	POST /api/logout                    → clear session cookie         (public)
//	GET  /api/me                        → current user                 (auth)
//	GET  /api/posts                     → feed with full meta          (auth)
//	POST /api/posts                     → create post                  (auth)
//	POST /api/posts/{postID}/comments   → comment on post              (auth)
//	POST /api/posts/{postID}/reactions  → like/dislike post            (auth)
//
// MIDDLEWARE ORDER MATTERS — ours is:
// 1. RequestID — unique id per request (tracing)
// 2. RealIP — client IP from proxy headers
// 3. Recoverer — panics become 500s instead of crashing the process
// 4. Logger — one slog line per completed request
// RequireAuth is mounted on the protected group only, so the auth check
// lives in exactly one place instead of being repeated in every handler.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, passwords, tokens, s.logger)
	feedService := service.NewFeedService(s.db, s.db, s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	feedHandler := handler.NewFeedHandler(feedService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Session endpoints — reachable without a session.
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		// Everything else requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Get("/posts", feedHandler.HandleListPosts)
			r.Post("/posts", feedHandler.HandleCreatePost)
			r.Post("/posts/{postID}/comments", feedHandler.HandleCreateComment)
			r.Post("/posts/{postID}/reactions", feedHandler.HandleCreateReaction)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// finish, close the database.
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
