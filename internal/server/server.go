// Package server is the wiring layer: it assembles the repository, services,
// and handlers, maps them onto routes, and owns startup/shutdown.
//
// The composition root lives in New/setupRoutes — every dependency is
// constructed and injected in one place, and each layer only receives what
// it needs (services get repository interfaces, handlers get services).
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

	"github.com/sakif/photofeed/internal/auth"
	"github.com/sakif/photofeed/internal/handler"
	"github.com/sakif/photofeed/internal/middleware"
	sqliteRepo "github.com/sakif/photofeed/internal/repository/sqlite"
	"github.com/sakif/photofeed/internal/service"
	"github.com/sakif/photofeed/internal/storage"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port     int
	DBPath   string
	MediaDir string
	BaseURL  string // externally visible origin, used in media URLs

	JWTSecret          string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, prepares the media store, wires
// services and handlers, and registers routes.
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

// setupRoutes configures middleware and the route table.
//
// Route structure:
//
//	GET    /auth/github/login      → redirect to provider
//	GET    /auth/github/callback   → finish login, set session cookie
//	POST   /auth/logout            → clear session cookie
//	GET    /media/*                → uploaded images
//	GET    /api/me                 → viewer profile
//	GET    /api/posts              → feed (limit, offset, userId)
//	POST   /api/posts              → create post (multipart)
//	GET    /api/posts/{postId}     → single post with stats
//	DELETE /api/posts/{postId}     → delete own post
//	GET    /api/comments           → comments for a post
//	POST   /api/comments           → create comment
//	DELETE /api/comments           → delete own comment (?commentId)
//	GET    /api/likes              → like status (?postId)
//	POST   /api/likes              → like (idempotent)
//	DELETE /api/likes              → unlike (silent no-op when absent)
//	POST   /api/follows            → follow
//	DELETE /api/follows            → unfollow
//	GET    /api/users/{userId}     → aggregated profile
//
// Everything under /api requires a verified identity.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Media store ===
	store, err := storage.NewDiskStore(s.config.MediaDir, s.config.BaseURL)
	if err != nil {
		return fmt.Errorf("creating media store: %w", err)
	}
	fileServer := http.FileServer(http.Dir(store.Root()))
	s.router.Handle("/media/*", http.StripPrefix("/media/", fileServer))

	// === Auth ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)
	authHandler := handler.NewAuthHandler(github, tokens, s.db, s.logger)

	s.router.Get("/auth/github/login", authHandler.HandleLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleCallback)
	s.router.Post("/auth/logout", authHandler.HandleLogout)

	// === Services ===
	userService := service.NewUserService(s.db, s.db, s.logger)
	postService := service.NewPostService(s.db, s.db, s.db, store, s.logger)
	likeService := service.NewLikeService(s.db, s.db, s.logger)
	followService := service.NewFollowService(s.db, s.db, s.logger)
	commentService := service.NewCommentService(s.db, s.db, s.logger)

	// === Handlers ===
	userHandler := handler.NewUserHandler(userService, s.logger)
	postHandler := handler.NewPostHandler(postService, userService, s.logger)
	likeHandler := handler.NewLikeHandler(likeService, userService, s.logger)
	followHandler := handler.NewFollowHandler(followService, userService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, userService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", userHandler.HandleMe)
		r.Get("/users/{userId}", userHandler.HandleGetProfile)

		r.Get("/posts", postHandler.HandleList)
		r.Post("/posts", postHandler.HandleCreate)
		r.Get("/posts/{postId}", postHandler.HandleGet)
		r.Delete("/posts/{postId}", postHandler.HandleDelete)

		r.Get("/comments", commentHandler.HandleList)
		r.Post("/comments", commentHandler.HandleCreate)
		r.Delete("/comments", commentHandler.HandleDelete)

		r.Get("/likes", likeHandler.HandleStatus)
		r.Post("/likes", likeHandler.HandleLike)
		r.Delete("/likes", likeHandler.HandleUnlike)

		r.Post("/follows", followHandler.HandleFollow)
		r.Delete("/follows", followHandler.HandleUnfollow)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests (30s) and closes the database.
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
			slog.String("mediaDir", s.config.MediaDir),
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
