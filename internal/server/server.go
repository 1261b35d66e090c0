// Package server wires the application together: it builds the store, the
// services, and the handlers, binds them to routes, and runs the HTTP
// server with graceful shutdown. main.go stays minimal; everything that
// decides which URL reaches which handler lives here.
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

	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/handler"
	"github.com/ykazlou/afisha/internal/middleware"
	sqliteRepo "github.com/ykazlou/afisha/internal/repository/sqlite"
	"github.com/ykazlou/afisha/internal/service"
)

// Config holds everything the server needs to start.
type Config struct {
	Port          int
	DBPath        string
	SessionSecret string
	UploadDir     string
}

// Server owns the router and the database connection. The connection is
// closed during shutdown so the WAL is flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: store → services → handlers →
// routes. Each layer receives only the interfaces it needs; handlers never
// see the database and services never see HTTP.
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

	if err := seed(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding database: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	images, err := handler.NewImageStore(s.config.UploadDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}

	// Services. The single *sqlite.DB satisfies every repository
	// interface, so it is passed wherever a repo is expected.
	accounts := service.NewAccountService(s.db, auth.NewPasswordService(), s.logger)
	events := service.NewEventService(s.db, s.db, s.db, s.logger)
	reviews := service.NewReviewService(s.db, s.db, s.db, s.db, s.logger)
	subscriptions := service.NewSubscriptionService(s.db, s.db, s.logger)
	preferences := service.NewPreferenceService(s.db, s.db, s.logger)
	tags := service.NewTagService(s.db, s.logger)
	celebrities := service.NewCelebrityService(s.db, s.db, s.logger)
	organizers := service.NewOrganizerService(s.db, s.db, s.db, s.db, s.logger)

	// Handlers.
	authHandler := handler.NewAuthHandler(accounts, sessions, s.logger)
	eventHandler := handler.NewEventHandler(events, reviews, celebrities, tags, images, s.logger)
	reviewHandler := handler.NewReviewHandler(reviews, s.logger)
	organizerHandler := handler.NewOrganizerHandler(organizers, subscriptions, s.logger)
	preferenceHandler := handler.NewPreferenceHandler(preferences, s.logger)
	catalogHandler := handler.NewCatalogHandler(tags, celebrities, images, s.logger)

	// Global middleware, in order: request ID, real IP, panic recovery,
	// then request logging.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Uploaded images are served back as static files.
	uploadServer := http.FileServer(http.Dir(images.Dir()))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", uploadServer))

	// Public routes. OptionalUser lets anonymous visitors browse while
	// logged-in users get recommendations and is_current_user flags.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalUser(sessions))
		r.Get("/", eventHandler.HandleListing)
		r.Get("/map", eventHandler.HandleMap)
		r.Get("/event/{id}", eventHandler.HandleDetail)
		r.Get("/event/{id}/reviews", reviewHandler.HandleEventReviews)
		r.Get("/organizer/{id}", organizerHandler.HandleProfile)
		r.Get("/celebrities", catalogHandler.HandleListCelebrities)
	})

	// Account routes.
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)

	// Routes for any authenticated user.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(sessions))
		r.Get("/me", authHandler.HandleMe)
		r.Post("/event/{id}/review", reviewHandler.HandleSubmitEventReview)
		r.Post("/organizer/{id}/review", reviewHandler.HandleSubmitOrganizerReview)
		r.Post("/subscribe/{organizerID}", organizerHandler.HandleSubscribe)
		r.Get("/user_preferences", preferenceHandler.HandleGet)
		r.Post("/user_preferences", preferenceHandler.HandleReplace)
	})

	// Organizer-only mutations.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireOrganizer(sessions))
		r.Post("/events", eventHandler.HandleCreate)
		r.Post("/tags", catalogHandler.HandleCreateTag)
		r.Post("/celebrities", catalogHandler.HandleCreateCelebrity)
		r.Post("/event/{id}/celebrity", catalogHandler.HandleAttachCelebrity)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
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
