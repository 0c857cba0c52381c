package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/replytrack/replytrack/internal/config"
	"github.com/replytrack/replytrack/internal/database"
	"github.com/replytrack/replytrack/internal/handlers"
	"github.com/replytrack/replytrack/internal/logger"
	"github.com/replytrack/replytrack/internal/middleware"
	"github.com/replytrack/replytrack/internal/repository"
	"github.com/replytrack/replytrack/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// A missing .env file is fine; configuration falls back to the
	// process environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	logger.SetDefault(log)

	log.Info("starting replytrack api server",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
		logger.String("database", cfg.Database.Path),
	)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	windowRepo := repository.NewWindowRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	// Initialize services
	settings := cfg.Analytics.Settings()
	syncService := service.NewSyncService(conversationRepo, windowRepo, settings)
	analyticsService := service.NewAnalyticsService(windowRepo, conversationRepo)
	insightsService := service.NewInsightsService(windowRepo, settings)
	goalService := service.NewGoalService(goalRepo, windowRepo)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHrs)*time.Hour)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	conversationHandler := handlers.NewConversationHandler(syncService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	insightsHandler := handlers.NewInsightsHandler(insightsService)
	goalHandler := handlers.NewGoalHandler(goalService)

	// Nightly streak roll-forward
	scheduler := service.NewScheduler(goalService)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	production := cfg.Server.Env == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.SecurityHeaders(production))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimitAuth())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.Auth(authService), authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.RateLimit())
		protected.Use(middleware.Auth(authService))
		{
			// Conversation and event routes
			protected.POST("/conversations", conversationHandler.Create)
			protected.GET("/conversations", conversationHandler.List)
			protected.GET("/conversations/:id", conversationHandler.Get)
			protected.POST("/conversations/:id/events", conversationHandler.IngestEvents)
			protected.GET("/conversations/:id/windows", conversationHandler.ListWindows)
			protected.POST("/conversations/:id/rematch", conversationHandler.Rematch)
			protected.GET("/events/pending", conversationHandler.Pending)
			protected.PATCH("/events/:id/excluded", conversationHandler.SetExcluded)

			// Analytics routes
			protected.GET("/analytics/metrics", analyticsHandler.GetMetrics)
			protected.GET("/analytics/daily", analyticsHandler.GetDaily)
			protected.GET("/analytics/hourly", analyticsHandler.GetHourly)
			protected.DELETE("/analytics/windows", analyticsHandler.Reset)

			// Insights routes
			protected.GET("/insights", insightsHandler.Get)

			// Goal routes
			protected.POST("/goals", goalHandler.Create)
			protected.GET("/goals", goalHandler.List)
			protected.GET("/goals/:id", goalHandler.Get)
			protected.PUT("/goals/:id", goalHandler.Update)
			protected.DELETE("/goals/:id", goalHandler.Delete)
			protected.GET("/goals/:id/streak", goalHandler.GetStreak)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
