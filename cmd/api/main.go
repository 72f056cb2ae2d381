package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skyframe/skyframe-api/internal/config"
	"github.com/skyframe/skyframe-api/internal/database"
	"github.com/skyframe/skyframe-api/internal/handler"
	"github.com/skyframe/skyframe-api/internal/middleware"
	"github.com/skyframe/skyframe-api/internal/models"
	"github.com/skyframe/skyframe-api/internal/notify"
	"github.com/skyframe/skyframe-api/internal/repository"
	"github.com/skyframe/skyframe-api/internal/router"
	"github.com/skyframe/skyframe-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if cfg.JWTSecret == "" {
		logger.Warn().Msg("jwt secret not configured; all authenticated routes will reject requests")
	}
	if cfg.ServiceKey == "" {
		logger.Warn().Msg("service key not configured; profile provisioning will reject requests")
	}

	// A missing store renders the data-backed surfaces inert rather than
	// refusing to start; health and metrics stay available.
	var deps router.Dependencies
	deps.AdminRateLimit = middleware.RateLimit("admin", cfg.AdminRateLimit, cfg.AdminRateWindow)

	if cfg.DatabaseURL == "" {
		logger.Error().Msg("database url not configured; profile and admin operations disabled")
	} else {
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(
			&models.Profile{},
			&models.UserActivityLog{},
			&models.AuditLog{},
			&models.Image{},
			&models.ImageLike{},
			&models.ImageComment{},
			&models.ImageFavorite{},
			&models.ImageDownload{},
		); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		var redisClient *redis.Client
		if cfg.RedisURL != "" {
			redisClient, err = database.ConnectRedis(cfg.RedisURL)
			if err != nil {
				logger.Warn().Err(err).Msg("redis unavailable; stats caching disabled")
				redisClient = nil
			} else {
				defer redisClient.Close()
			}
		}

		var natsConn *nats.Conn
		if cfg.NatsURL != "" {
			natsConn, err = database.ConnectNATS(cfg.NatsURL)
			if err != nil {
				logger.Warn().Err(err).Msg("nats unavailable; user events stay in-process")
				natsConn = nil
			} else {
				defer natsConn.Close()
			}
		}

		validate := validator.New(validator.WithRequiredStructEnabled())
		events := notify.NewBroker(natsConn, "skyframe.users.events", logger)

		profileRepo := repository.NewProfileRepository(db)
		activityRepo := repository.NewActivityLogRepository(db)
		auditRepo := repository.NewAuditLogRepository(db)

		activityService := service.NewActivityService(activityRepo, logger)
		profileService := service.NewProfileService(profileRepo, validate, activityService, events, logger)
		adminService := service.NewAdminService(profileRepo, auditRepo, validate, activityService, events, redisClient, cfg.StatsCacheTTL, logger)
		directoryService := service.NewDirectoryService(profileRepo, logger)

		deps.ProfileHandler = handler.NewProfileHandler(profileService, logger)
		deps.AdminHandler = handler.NewAdminHandler(adminService, validate, logger)
		deps.UsersHandler = handler.NewUsersHandler(directoryService, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
