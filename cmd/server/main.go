package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/database"
	"github.com/cinescope/cinescope/internal/handlers"
	"github.com/cinescope/cinescope/internal/middleware"
	"github.com/cinescope/cinescope/internal/pager"
	"github.com/cinescope/cinescope/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := log.New(os.Stdout, "[cinescope] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("Starting CineScope server in %s mode", cfg.Server.Env)

	// Initialize Redis connection
	redisClient, err := database.NewRedisClient(database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       0,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize session store
	sessionStore := database.NewSessionStore(redisClient, cfg.Session.TTL)

	// Initialize services
	catalogCfg := services.CatalogServiceConfig{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
	}
	catalogService := services.NewCatalogService(catalogCfg, logger)
	catalogCache := services.NewCatalogCache(catalogService, logger)
	viewService := services.NewViewService(catalogCache)
	authService := services.NewAuthService(catalogCfg)
	adminService := services.NewAdminService(services.CatalogServiceConfig{
		BaseURL: cfg.Catalog.BaseURL,
	})

	// Per-session feed state
	feedRegistry := pager.NewRegistry(30 * time.Minute)
	defer feedRegistry.Close()

	// Input validation
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionStore, cfg.Session.CookieName, cfg.IsProduction())

	// Initialize rate limiter (100 req/min in production, unlimited in local/dev)
	maxRequests := 1000 // High limit for local/dev
	if cfg.IsProduction() {
		maxRequests = 100
	}
	rateLimiter := middleware.NewRateLimiter(redisClient.Client, maxRequests, time.Minute, cfg.IsProduction())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessionStore, authMiddleware, validate, logger)
	movieHandler := handlers.NewMovieHandler(catalogService, viewService, catalogCache, adminService, validate, logger)
	feedHandler := handlers.NewFeedHandler(feedRegistry, catalogService, viewService, logger)

	// Set up HTTP router
	mux := http.NewServeMux()

	// Auth routes (public)
	mux.HandleFunc("POST /api/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.Handle("POST /api/logout", authMiddleware.OptionalAuth(http.HandlerFunc(authHandler.Logout)))

	// Account routes (protected)
	mux.Handle("GET /api/profile", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.Profile)))
	mux.Handle("PUT /api/preferences", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.UpdatePreferences)))

	// Catalog read routes (public, rate limited)
	mux.Handle("GET /api/movies", rateLimiter.Limit(http.HandlerFunc(movieHandler.List)))
	mux.Handle("GET /api/movies/{id}", rateLimiter.Limit(http.HandlerFunc(movieHandler.Get)))
	mux.Handle("GET /api/trending", rateLimiter.Limit(http.HandlerFunc(movieHandler.Trending)))
	mux.Handle("GET /api/fanfavourite", rateLimiter.Limit(http.HandlerFunc(movieHandler.FanFavourite)))
	mux.Handle("GET /api/newreleases", rateLimiter.Limit(http.HandlerFunc(movieHandler.NewReleases)))
	mux.Handle("GET /api/home", rateLimiter.Limit(http.HandlerFunc(movieHandler.Home)))

	// Movie creation (supervisor only)
	mux.Handle("POST /api/movies", rateLimiter.Limit(authMiddleware.RequireAuth(authMiddleware.RequireSupervisor(http.HandlerFunc(movieHandler.Create)))))

	// Feed routes (protected; per-session pagination state)
	mux.Handle("POST /api/feeds/search/query", authMiddleware.RequireAuth(http.HandlerFunc(feedHandler.SearchQuery)))
	mux.Handle("POST /api/feeds/explore/genre", authMiddleware.RequireAuth(http.HandlerFunc(feedHandler.ExploreGenre)))
	mux.Handle("POST /api/feeds/{name}/open", authMiddleware.RequireAuth(http.HandlerFunc(feedHandler.Open)))
	mux.Handle("POST /api/feeds/{name}/more", authMiddleware.RequireAuth(http.HandlerFunc(feedHandler.More)))
	mux.Handle("GET /api/feeds/{name}", authMiddleware.RequireAuth(http.HandlerFunc(feedHandler.Get)))

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := redisClient.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","redis":"down"}`)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","redis":"up"}`)
	})

	// Wrap with logging middleware
	handler := middleware.Logger(logger)(mux)

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited")
}
