package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"caseAssist/app/echo-server/metrics"
	"caseAssist/app/echo-server/router"
	"caseAssist/business/auth"
	"caseAssist/business/client"
	"caseAssist/business/recommend"
	"caseAssist/domain"
	"caseAssist/internal/middleware"
	psqlRepo "caseAssist/internal/repository/postgres"
	redisRepo "caseAssist/internal/repository/redis"
	"caseAssist/internal/rest"
	"caseAssist/pkg/config"
	"caseAssist/pkg/database"
	"caseAssist/pkg/database/redis"
	"caseAssist/pkg/logger"
	"caseAssist/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting case management API", "version", cfg.App.Version, "env", cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db,
		&domain.User{},
		&domain.Client{},
		&domain.ClientCase{},
		&domain.CaseOutcome{},
		&domain.ModelArtifact{},
	); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redis.CloseRedisClient(redisClient)

	tokenTTL := time.Duration(cfg.JWT.TTLHours) * time.Hour
	utils.ConfigureJWT(cfg.JWT.SecretKey, tokenTTL)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	clientRepo := psqlRepo.NewClientRepository(db)
	caseRepo := psqlRepo.NewClientCaseRepository(db)
	outcomeRepo := psqlRepo.NewOutcomeRepository(db)
	artifactRepo := psqlRepo.NewModelArtifactRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init engine
	engineCfg, err := recommend.FromEnv(cfg.Recommend)
	if err != nil {
		logger.Fatal("Invalid recommendation engine config", "error", err)
	}
	engine, err := recommend.NewEngine(engineCfg, outcomeRepo, artifactRepo)
	if err != nil {
		logger.Fatal("Failed to build recommendation engine", "error", err)
	}
	if err := engine.Bootstrap(ctx); err != nil {
		logger.Error("Failed to load active model at startup", "error", err)
	}

	// Init service
	authService := auth.NewAuthService(userRepo, tokenRepo, validate, tokenTTL)
	clientService := client.NewClientService(clientRepo, caseRepo, userRepo, outcomeRepo, engine, validate)

	// Init handler
	authHandler := rest.NewAuthHandler(authService, validate)
	clientHandler := rest.NewClientHandler(clientService, validate)
	recommendationHandler := rest.NewRecommendationHandler(engine)
	modelHandler := rest.NewModelHandler(engine.Updater)
	healthHandler := rest.NewHealthHandler(cfg.App.Version)

	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderTraceID},
	}))

	authRequired := middleware.AuthMiddlewareWithRedis(authService)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	router.SetupHealthRoutes(e, healthHandler)

	api := e.Group("/api/v1")
	router.SetupAuthRoutes(api, authHandler, authRequired)
	router.SetupClientRoutes(api, clientHandler, authRequired, adminOnly)
	router.SetupRecommendationRoutes(api, recommendationHandler, authRequired)
	router.SetupModelRoutes(api, modelHandler, authRequired, adminOnly)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return engine.Scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server stopped with error", "error", err)
		return
	}

	logger.Info("Server stopped")
}
