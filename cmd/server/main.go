package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/studyflow-backend/internal/config"
	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/middleware"
	"github.com/studyflow/studyflow-backend/internal/migrations"
	"github.com/studyflow/studyflow-backend/internal/models"
	"github.com/studyflow/studyflow-backend/internal/routes"
	"github.com/studyflow/studyflow-backend/internal/services"
	"github.com/studyflow/studyflow-backend/pkg/logger"
)

func main() {
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting StudyFlow progression backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect()
	database.InitRedis()

	logger.Info().Msg("Running database migrations...")
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.ProgressionRecord{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyQuestSet{},
		&models.DailyQuest{},
		&models.Notification{},
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}
	if err := migrations.NewMigrator(database.DB).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Info().Msg("Database migrations complete")

	// Progression wiring: day boundary and the shared leaderboard
	// snapshot cache.
	services.SetDayLocation(config.AppConfig.DayLocation())
	services.InitLeaderboard(
		database.DB,
		config.AppConfig.LeaderboardTTL(),
		config.AppConfig.LeaderboardTopN,
		services.TierConfig{
			GoldMaxRank:   config.AppConfig.TierGoldMaxRank,
			SilverMaxRank: config.AppConfig.TierSilverMaxRank,
		},
	)

	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	api := r.Group("/api")
	{
		routes.RegisterProgressionRoutes(api)
		routes.RegisterQuestRoutes(api)
		routes.RegisterLeaderboardRoutes(api)
		routes.RegisterNotificationRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Info().Str("port", port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}
	logger.Info().Msg("Server stopped")
}
