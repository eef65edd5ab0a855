package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/config"
	"github.com/noah-isme/bioscizone-api/internal/database"
	"github.com/noah-isme/bioscizone-api/internal/handler"
	"github.com/noah-isme/bioscizone-api/internal/middleware"
	"github.com/noah-isme/bioscizone-api/internal/repository"
	"github.com/noah-isme/bioscizone-api/internal/router"
	"github.com/noah-isme/bioscizone-api/internal/service"
	cloud "github.com/noah-isme/bioscizone-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	switch {
	case cfg.RedisURL == "":
		logger.Warn().Msg("redis url not set, article cache and feedback dedupe disabled")
	default:
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, article cache and feedback dedupe disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var storage service.FileStorage
	cloudCfg := cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}
	if cloudCfg.Configured() {
		uploader, err := cloud.New(cloudCfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		storage = uploader
	} else {
		logger.Warn().Msg("cloudinary credentials not set, uploads disabled")
	}

	notifiers := service.FanoutNotifier{service.NewLogFeedbackNotifier(logger)}
	if cfg.SMTPConfigured() {
		notifiers = append(notifiers, service.NewSMTPFeedbackNotifier(service.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUser,
			Password:   cfg.SMTPPassword,
			FromName:   cfg.SMTPFromName,
			Recipients: cfg.NotifyEmails,
		}, logger))
	}
	if cfg.NATSURL != "" {
		natsConn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Drain()
		notifiers = append(notifiers, service.NewNATSFeedbackNotifier(natsConn, cfg.NATSSubject))
	}

	validate := service.NewValidator()

	buddyRepo := repository.NewBuddyRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	labRepo := repository.NewLabRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	auditService := service.NewAuditService(auditRepo, logger)
	buddyService := service.NewBuddyService(buddyRepo, validate, auditService, logger)
	articleService := service.NewArticleService(articleRepo, redisClient, cfg.ArticleCacheTTL, validate, auditService, logger)
	labService := service.NewLabService(labRepo)
	searchService := service.NewSearchService(buddyRepo, articleRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, redisClient, cfg.FeedbackDedupeTTL, validate, notifiers, auditService, logger)
	authService := service.NewAuthService(adminRepo, settingRepo, validate, auditService, service.AuthConfig{
		Secret:           cfg.JWTSecret,
		TokenTTL:         cfg.AccessTokenTTL,
		FallbackUsername: cfg.AdminUsername,
		FallbackPassword: cfg.AdminPassword,
	}, logger)
	adminAccountService := service.NewAdminAccountService(adminRepo, validate, auditService, logger)
	settingService := service.NewSettingService(settingRepo, validate, auditService, logger)
	uploadService := service.NewUploadService(storage, uploadRepo, cfg.UploadMaxSizeMB, auditService, logger)
	seedService := service.NewSeedService(labRepo, articleRepo, articleService, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, CORSOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		BuddyHandler:        handler.NewBuddyHandler(buddyService, logger),
		ArticleHandler:      handler.NewArticleHandler(articleService, logger),
		LabHandler:          handler.NewLabHandler(labService, logger),
		SearchHandler:       handler.NewSearchHandler(searchService, logger),
		FeedbackHandler:     handler.NewFeedbackHandler(feedbackService, logger),
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		AdminAccountHandler: handler.NewAdminAccountHandler(adminAccountService, logger),
		SettingHandler:      handler.NewSettingHandler(settingService, logger),
		AuditLogHandler:     handler.NewAuditLogHandler(auditService, logger),
		UploadHandler:       handler.NewUploadHandler(uploadService, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)

	// Feedback already stored still gets its notification.
	feedbackService.Wait()
	logger.Info().Msg("pending notifications delivered")
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
