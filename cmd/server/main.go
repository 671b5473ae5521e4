package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityapp "github.com/crm/backend/internal/application/activity"
	contactapp "github.com/crm/backend/internal/application/contact"
	identityapp "github.com/crm/backend/internal/application/identity"
	leadapp "github.com/crm/backend/internal/application/lead"
	pipelineapp "github.com/crm/backend/internal/application/pipeline"
	reportapp "github.com/crm/backend/internal/application/report"
	taskapp "github.com/crm/backend/internal/application/task"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/domain/task"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/persistence/memory"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// repositories bundles all persistence interfaces so the postgres and
// in-memory backings interchange behind one seam
type repositories struct {
	contacts      contact.ContactRepository
	leads         lead.LeadRepository
	opportunities pipeline.OpportunityRepository
	tasks         task.TaskRepository
	activities    activity.ActivityRepository
	users         identity.UserRepository
	reports       report.CRMReportRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	var repos repositories
	var healthChecks []func() error
	if cfg.Database.Driver == "memory" {
		contactRepo := memory.NewContactRepository()
		leadRepo := memory.NewLeadRepository()
		opportunityRepo := memory.NewOpportunityRepository()
		taskRepo := memory.NewTaskRepository()
		activityRepo := memory.NewActivityRepository()
		userRepo := memory.NewUserRepository()
		repos = repositories{
			contacts:      contactRepo,
			leads:         leadRepo,
			opportunities: opportunityRepo,
			tasks:         taskRepo,
			activities:    activityRepo,
			users:         userRepo,
			reports:       memory.NewCRMReportRepository(contactRepo, leadRepo, opportunityRepo, taskRepo, activityRepo, userRepo),
		}
		log.Info("Using in-memory persistence")
	} else {
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		log.Info("Database connected")
		healthChecks = append(healthChecks, db.Ping)

		repos = repositories{
			contacts:      persistence.NewGormContactRepository(db.DB),
			leads:         persistence.NewGormLeadRepository(db.DB),
			opportunities: persistence.NewGormOpportunityRepository(db.DB),
			tasks:         persistence.NewGormTaskRepository(db.DB),
			activities:    persistence.NewGormActivityRepository(db.DB),
			users:         persistence.NewGormUserRepository(db.DB),
			reports:       persistence.NewGormCRMReportRepository(db.DB),
		}
	}

	var reportCache cache.ReportCache
	if cfg.Report.CacheEnabled {
		if cfg.Redis.Host != "" {
			redisCache, err := cache.NewRedisReportCache(cache.RedisConfig{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}, cache.WithReportTTL(cfg.Report.CacheTTL), cache.WithCacheLogger(log))
			if err != nil {
				log.Fatal("Failed to connect to Redis", zap.Error(err))
			}
			defer func() {
				if err := redisCache.Close(); err != nil {
					log.Error("Error closing Redis cache", zap.Error(err))
				}
			}()
			reportCache = redisCache
			log.Info("Report cache enabled", zap.String("backend", "redis"))
		} else {
			reportCache = cache.NewInMemoryReportCache(cfg.Report.CacheTTL)
			log.Info("Report cache enabled", zap.String("backend", "memory"))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	recorder := activityapp.NewRecorder(repos.activities, log, cfg.Activity.AutoLogEnabled)

	activityService := activityapp.NewActivityService(repos.activities)
	contactService := contactapp.NewContactService(repos.contacts, recorder)
	leadService := leadapp.NewLeadService(repos.leads, recorder)
	opportunityService := pipelineapp.NewOpportunityService(repos.opportunities, recorder)
	taskService := taskapp.NewTaskService(repos.tasks, repos.contacts, repos.leads, repos.opportunities, recorder)
	authService := identityapp.NewAuthService(repos.users, jwtService, log)
	userService := identityapp.NewUserService(repos.users)
	reportService := reportapp.NewReportService(repos.reports, repos.activities, reportCache, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.MaxBodySize(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// After JWT so authenticated traffic is limited per user, not per IP
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(healthChecks...))
	r.Register(handler.NewAuthHandler(authService))
	r.Register(handler.NewContactHandler(contactService))
	r.Register(handler.NewLeadHandler(leadService))
	r.Register(handler.NewOpportunityHandler(opportunityService))
	r.Register(handler.NewTaskHandler(taskService))
	r.Register(handler.NewActivityHandler(activityService))
	r.Register(handler.NewUserHandler(userService))
	r.Register(handler.NewReportHandler(reportService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
