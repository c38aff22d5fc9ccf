package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dennypradipta/n8n-chat-history/internal/api/handlers"
	"github.com/dennypradipta/n8n-chat-history/internal/api/middleware"
	"github.com/dennypradipta/n8n-chat-history/internal/config"
	"github.com/dennypradipta/n8n-chat-history/internal/database"
	"github.com/dennypradipta/n8n-chat-history/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setLogLevel(cfg.LogLevel)

	// Initialize the database connection pool
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	// Setup and run the server
	r := setupRouter(store.New(db), cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}

func setupRouter(st *store.Store, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.HandleMethodNotAllowed = true

	// Configure CORS middleware. gin-contrib/cors rejects foreign Origin
	// headers outright with an empty-body 403; the origin middleware below
	// covers what it lets through, namely requests without an Origin header
	// and Origin values equal to the request host, which cors treats as
	// same-origin and skips.
	headers := cors.DefaultConfig()
	headers.AllowOrigins = []string{cfg.ChatURL}
	headers.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	headers.AllowHeaders = []string{"Content-Type"}
	headers.AllowCredentials = true
	r.Use(cors.New(headers))

	// Health check stays outside the origin allow-list so container
	// orchestrators can reach it.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Initialize handlers and middleware with dependencies
	handler := handlers.NewHandler(st, cfg)
	originMiddleware := middleware.NewOriginMiddleware(cfg.ChatURL)

	// API routes - protected by the origin allow-list
	api := r.Group("/api", originMiddleware.CheckOrigin())
	handler.RegisterRoutes(api)

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
