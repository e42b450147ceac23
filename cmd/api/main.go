package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/studio-booking-api/api/swagger"
	"github.com/noah-isme/studio-booking-api/internal/handler"
	"github.com/noah-isme/studio-booking-api/internal/middleware"
	"github.com/noah-isme/studio-booking-api/internal/models"
	"github.com/noah-isme/studio-booking-api/internal/repository"
	"github.com/noah-isme/studio-booking-api/internal/service"
	"github.com/noah-isme/studio-booking-api/pkg/cache"
	"github.com/noah-isme/studio-booking-api/pkg/config"
	"github.com/noah-isme/studio-booking-api/pkg/database"
	"github.com/noah-isme/studio-booking-api/pkg/export"
	"github.com/noah-isme/studio-booking-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studio-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studio-booking-api/pkg/middleware/requestid"
)

// @title Studio Booking API
// @version 1.0.0
// @description Class-booking administration API: schedule grid, reservations with capacity control, student directory and roster reports.
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The grid cache degrades to direct reads without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "studio-booking-api",
	})
	scheduleSvc := service.NewScheduleService(classRepo, cacheRepo, metricsSvc, cfg.Schedule.CacheTTL, logr)
	bookingSvc := service.NewBookingService(bookingRepo, cacheRepo, metricsSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, cacheRepo, validate, logr)
	reportSvc := service.NewReportService(reportRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	classHandler := handler.NewClassHandler(scheduleSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/classes", classHandler.List)
		api.GET("/classes/:id", classHandler.Get)

		api.POST("/bookings", bookingHandler.Create)

		api.GET("/students", studentHandler.List)
		api.GET("/students/:id", studentHandler.Get)
		api.GET("/students/:id/classes", studentHandler.Classes)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), studentHandler.Delete)

		api.GET("/reports/classes", reportHandler.Classes)
		if cfg.Reports.ExportEnabled {
			api.GET("/reports/classes/export", reportHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
