package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mentorloop/mentorloop-api/api/swagger"
	"github.com/mentorloop/mentorloop-api/internal/handler"
	"github.com/mentorloop/mentorloop-api/internal/middleware"
	"github.com/mentorloop/mentorloop-api/internal/repository"
	"github.com/mentorloop/mentorloop-api/internal/service"
	"github.com/mentorloop/mentorloop-api/pkg/cache"
	"github.com/mentorloop/mentorloop-api/pkg/config"
	"github.com/mentorloop/mentorloop-api/pkg/database"
	"github.com/mentorloop/mentorloop-api/pkg/logger"
	corsmiddleware "github.com/mentorloop/mentorloop-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mentorloop/mentorloop-api/pkg/middleware/requestid"
	"github.com/mentorloop/mentorloop-api/pkg/storage"
)

// @title MentorLoop API
// @version 1.0.0
// @description Mentor marketplace: catalog, availability calendar, bookings
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled && redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	notificationService := service.NewNotificationService(messageRepo, mentorRepo, 2, logr)
	notificationService.Start(context.Background())
	defer notificationService.Stop()

	var exportStore *storage.LocalStorage
	var exportSigner *storage.SignedURLSigner
	if cfg.Exports.Enabled {
		exportStore, err = storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Warnw("export storage unavailable, download links disabled", "error", err)
			exportStore = nil
		} else {
			exportSigner = storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Exports.DownloadTTL)
		}
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	mentorService := service.NewMentorService(mentorRepo, cacheService, validate, logr, cfg.Catalog.MaxPageSize)
	availabilityService := service.NewAvailabilityService(availabilityRepo, mentorRepo, validate, logr)
	bookingService := service.NewBookingService(bookingRepo, availabilityRepo, mentorRepo, validate, logr, metricsService, notificationService, cfg.Booking.MinLeadTime)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo, mentorRepo, validate, logr)
	favoriteService := service.NewFavoriteService(favoriteRepo, mentorRepo, logr)
	chatService := service.NewChatService(messageRepo, userRepo, validate, logr)
	exportService := service.NewExportService(availabilityService, bookingRepo, exportStore, exportSigner, cfg.Exports.Title, logr)

	if exportStore != nil {
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				exportService.CleanupDownloads(cfg.Exports.DownloadTTL)
			}
		}()
	}

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Mentor:       handler.NewMentorHandler(mentorService, favoriteService, reviewService),
		Availability: handler.NewAvailabilityHandler(availabilityService),
		Booking:      handler.NewBookingHandler(bookingService),
		Review:       handler.NewReviewHandler(reviewService),
		Favorite:     handler.NewFavoriteHandler(favoriteService),
		Chat:         handler.NewChatHandler(chatService),
		Export:       handler.NewExportHandler(exportService, mentorService),
		Metrics:      handler.NewMetricsHandler(metricsService),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	handler.RegisterRoutes(r, handlers, authService)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
