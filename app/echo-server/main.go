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
	"tuvino/app/echo-server/router"
	ratingService "tuvino/business/rating"
	"tuvino/business/recommendation"
	userService "tuvino/business/user"
	wineService "tuvino/business/wine"
	"tuvino/internal/middleware"
	"tuvino/internal/repository/notification"
	psqlRepo "tuvino/internal/repository/postgres"
	"tuvino/internal/repository/recmodel"
	redisRepo "tuvino/internal/repository/redis"
	"tuvino/internal/repository/summarizer"
	"tuvino/internal/rest"
	"tuvino/pkg/config"
	"tuvino/pkg/database"
	redisdb "tuvino/pkg/database/redis"
	"tuvino/pkg/logger"
	"tuvino/pkg/metrics"
	"tuvino/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting tuVino API", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	modelRepo := recmodel.NewModelRepository(
		recmodel.ModelConfig{
			BaseUrl:        cfg.Model.BaseUrl,
			TimeoutSeconds: cfg.Model.TimeoutSeconds,
		},
	)

	summarizerRepo := summarizer.NewSummarizerRepository(
		summarizer.SummarizerConfig{
			BaseUrl: cfg.Summarize.BaseUrl,
			APIKey:  cfg.Summarize.APIKey,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	wineRepo := psqlRepo.NewWineRepository(db)
	ratingRepo := psqlRepo.NewRatingRepository(db)
	prefRepo := psqlRepo.NewPreferenceRepository(db)
	favoriteRepo := psqlRepo.NewFavoriteRepository(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient)

	// Init service
	userSvc := userService.NewUserService(userRepo, prefRepo, validate, mailjetEmail, sessionRepo, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	recSvc := recommendation.NewRecommendationService(userRepo, ratingRepo, prefRepo, wineRepo, modelRepo)
	wineSvc := wineService.NewWineService(wineRepo, favoriteRepo, recSvc)
	ratingSvc := ratingService.NewRatingService(ratingRepo, wineRepo, summarizerRepo)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	wineHandler := rest.NewWineHandler(wineSvc)
	ratingHandler := rest.NewRatingHandler(ratingSvc)
	recHandler := rest.NewRecommendationHandler(recSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(sessionRepo)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupWineRoutes(api, wineHandler, ratingHandler, authRequired, adminOnly)
	router.SetupRatingRoutes(api, ratingHandler, authRequired)
	router.SetupRecommendationRoutes(api, recHandler, authRequired)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
