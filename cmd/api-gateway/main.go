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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/matlalipitso/reporting-lwks-sub000/api/swagger"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/handler"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/middleware"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/repository"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/service"
	"github.com/matlalipitso/reporting-lwks-sub000/migrations"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/cache"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/config"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/database"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/logger"
	corsmiddleware "github.com/matlalipitso/reporting-lwks-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/matlalipitso/reporting-lwks-sub000/pkg/middleware/requestid"
)

// @title Academic Reporting Portal API
// @version 1.0.0
// @description Lecture reports, reviewer feedback, student ratings and attendance monitoring.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, migrations.FS); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Ratings.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("rating summary cache disabled", zap.Error(err))
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	reportRepo := repository.NewReportRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "reporting", logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Ratings.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	reportSvc := service.NewReportService(reportRepo, auditRepo, validate, logr,
		service.WithReportListMax(cfg.Reports.ListMax),
		service.WithReportMetrics(metrics),
	)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, reportRepo, auditRepo, metrics, logr)
	ratingSvc := service.NewRatingService(ratingRepo, cacheSvc, auditRepo, metrics, validate, logr)
	attendanceSvc := service.NewAttendanceService(reportRepo, metrics, logr)
	exportSvc := service.NewExportService(reportSvc, logr, nil, nil)

	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	monitoringHandler := handler.NewMonitoringHandler(attendanceSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, readinessChecks(db.PingContext, redisClient))

	ratingLimiter := middleware.NewRateLimiter(ctx, cfg.Ratings.RateLimitRPS, cfg.Ratings.RateLimitBurst)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	reports := api.Group("/lecture-reports")
	reports.POST("", middleware.Require(middleware.CanSubmitReport), reportHandler.Create)
	reports.GET("", reportHandler.List)
	reports.GET("/export",
		middleware.RequireRoles(models.RolePrincipalLecturer, models.RoleProgramLeader),
		middleware.Audit(auditRepo, logr, models.AuditActionReportExport, "report"),
		reportHandler.Export,
	)
	reports.GET("/:id", reportHandler.Get)
	reports.PUT("/:id", middleware.Require(middleware.CanReview), reportHandler.Transition)

	api.GET("/reports/:id/feedback", feedbackHandler.List)
	api.POST("/reports/:id/feedback", middleware.Require(middleware.CanReview), feedbackHandler.Add)
	api.POST("/feedback/:id/close", middleware.Require(middleware.CanReview), feedbackHandler.Close)
	api.POST("/feedback/:id/address", feedbackHandler.Address)

	ratings := api.Group("/ratings")
	ratings.GET("", ratingHandler.List)
	ratings.POST("", middleware.Require(middleware.CanRate), ratingLimiter.Middleware(), ratingHandler.Submit)
	ratings.GET("/overview", middleware.Require(middleware.CanReview), ratingHandler.Overview)
	ratings.GET("/lecturer/:name", ratingHandler.LecturerSummary)

	monitoring := api.Group("/monitoring")
	monitoring.GET("/attendance", monitoringHandler.Attendance)
	monitoring.GET("/attendance/courses", monitoringHandler.AttendanceByCourse)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func readinessChecks(pingDB handler.ReadinessCheck, redisClient *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{"postgres": pingDB}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
