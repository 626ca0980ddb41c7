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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/coursedeck/coursedeck-api/api/swagger"
	"github.com/coursedeck/coursedeck-api/internal/handler"
	"github.com/coursedeck/coursedeck-api/internal/middleware"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	"github.com/coursedeck/coursedeck-api/internal/service"
	"github.com/coursedeck/coursedeck-api/pkg/cache"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	"github.com/coursedeck/coursedeck-api/pkg/database"
	"github.com/coursedeck/coursedeck-api/pkg/export"
	"github.com/coursedeck/coursedeck-api/pkg/logger"
	corsmiddleware "github.com/coursedeck/coursedeck-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coursedeck/coursedeck-api/pkg/middleware/requestid"
	"github.com/coursedeck/coursedeck-api/pkg/storage"
)

// @title CourseDeck API
// @version 1.0.0
// @description Course schedule conflict and feasibility analysis service
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, analysis memoization disabled", zap.Error(err))
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Analysis.CacheTTL, logr, false)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analysis.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	scenarioRepo := repository.NewScenarioRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	pathwayRepo := repository.NewPathwayRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "coursedeck-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	scenarioSvc := service.NewScenarioService(scenarioRepo, cacheSvc, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, scenarioRepo, instructorRepo, roomRepo, cacheSvc, validate, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	pathwaySvc := service.NewPathwayService(pathwayRepo, validate, logr)
	analysisSvc := service.NewAnalysisService(scenarioRepo, sectionRepo, instructorRepo, roomRepo, pathwayRepo, cacheSvc, metricsSvc, logr, service.AnalysisServiceConfig{
		DefaultBufferMinutes: cfg.Analysis.DefaultBufferMinutes,
		CacheTTL:             cfg.Analysis.CacheTTL,
	})

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(analysisSvc, store, signer, service.ExportConfig{
			APIPrefix:  cfg.APIPrefix,
			ResultTTL:  cfg.Exports.SignedURLTTL,
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
		}, logr, export.NewCSVExporter(), export.NewPDFExporter())
	}

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	scenarioHandler := handler.NewScenarioHandler(scenarioSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	pathwayHandler := handler.NewPathwayHandler(pathwaySvc)
	analysisHandler := handler.NewAnalysisHandler(analysisSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	users := api.Group("/users", middleware.JWT(authSvc), middleware.RBAC("ADMIN", "SELF"))
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	authed := api.Group("", middleware.JWT(authSvc))
	editors := middleware.RBAC("ADMIN", "SCHEDULER")

	scenarios := authed.Group("/scenarios")
	scenarios.GET("", scenarioHandler.List)
	scenarios.GET("/:id", scenarioHandler.Get)
	scenarios.POST("", editors, scenarioHandler.Create)
	scenarios.PUT("/:id", editors, scenarioHandler.Update)
	scenarios.DELETE("/:id", editors, scenarioHandler.Delete)

	scenarios.GET("/:id/sections", sectionHandler.List)
	scenarios.POST("/:id/sections", editors, sectionHandler.Create)
	scenarios.POST("/:id/sections/import", editors, sectionHandler.Import)
	scenarios.GET("/:id/analysis", analysisHandler.Analyze)

	sections := authed.Group("/sections")
	sections.GET("/:sectionId", sectionHandler.Get)
	sections.PUT("/:sectionId", editors, sectionHandler.Update)
	sections.DELETE("/:sectionId", editors, sectionHandler.Delete)

	instructors := authed.Group("/instructors")
	instructors.GET("", instructorHandler.List)
	instructors.GET("/:id", instructorHandler.Get)
	instructors.POST("", editors, instructorHandler.Create)
	instructors.PUT("/:id", editors, instructorHandler.Update)
	instructors.DELETE("/:id", editors, instructorHandler.Delete)

	rooms := authed.Group("/rooms")
	rooms.GET("", roomHandler.List)
	rooms.GET("/:id", roomHandler.Get)
	rooms.POST("", editors, roomHandler.Create)
	rooms.PUT("/:id", editors, roomHandler.Update)
	rooms.DELETE("/:id", editors, roomHandler.Delete)

	pathways := authed.Group("/pathways")
	pathways.GET("", pathwayHandler.List)
	pathways.GET("/:id", pathwayHandler.Get)
	pathways.POST("", editors, pathwayHandler.Create)
	pathways.PUT("/:id", editors, pathwayHandler.Update)
	pathways.DELETE("/:id", editors, pathwayHandler.Delete)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if exportSvc != nil {
		exportHandler := handler.NewExportHandler(exportSvc)
		scenarios.POST("/:id/exports", editors, exportHandler.Create)
		exports := api.Group("/exports")
		exports.GET("/:jobId", middleware.JWT(authSvc), exportHandler.Get)
		// Download authorizes via the signed token itself.
		exports.GET("/download/:token", exportHandler.Download)

		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
