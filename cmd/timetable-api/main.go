package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schoolops/timetable-api/api/swagger"
	"github.com/schoolops/timetable-api/internal/handler"
	"github.com/schoolops/timetable-api/internal/middleware"
	"github.com/schoolops/timetable-api/internal/models"
	"github.com/schoolops/timetable-api/internal/repository"
	"github.com/schoolops/timetable-api/internal/service"
	"github.com/schoolops/timetable-api/pkg/cache"
	"github.com/schoolops/timetable-api/pkg/config"
	"github.com/schoolops/timetable-api/pkg/database"
	"github.com/schoolops/timetable-api/pkg/logger"
	corsmiddleware "github.com/schoolops/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolops/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Timetable scheduling engine for school operations
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
		logr.Sugar().Warnw("redis unavailable, schedule caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	settingsRepo := repository.NewTimetableSettingsRepository(db)
	entryRepo := repository.NewTimetableEntryRepository(db)
	linkRepo := repository.NewTeacherTimetableRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	planRepo := repository.NewSessionPlanRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	lookupRepo := repository.NewNameLookupRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	// Services.
	metricsSvc := service.NewMetricsService()
	settingsSvc := service.NewSettingsService(settingsRepo, nil, logr, cfg.Timetable.DefaultDayOff)
	timetableSvc := service.NewTimetableService(entryRepo, settingsRepo, lookupRepo, cacheRepo, metricsSvc, nil, logr)
	scheduleSvc := service.NewTeacherScheduleService(entryRepo, entryRepo, linkRepo, lookupRepo, cacheRepo, cfg.Timetable.ScheduleCacheTTL, metricsSvc, logr)
	sessionSvc := service.NewSessionService(sessionRepo, planRepo, subjectRepo, nil, logr)
	membershipSvc := service.NewMembershipService(membershipRepo, nil, logr)
	exportSvc := service.NewExportService(timetableSvc, scheduleSvc, logr)

	// Handlers.
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	scheduleHandler := handler.NewTeacherScheduleHandler(scheduleSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	membershipHandler := handler.NewMembershipHandler(membershipSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	verifier := middleware.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(verifier))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	schools := api.Group("/schools/:schoolId")
	{
		schools.GET("/timetable-settings", settingsHandler.Get)
		schools.PUT("/timetable-settings", staff, settingsHandler.Upsert)
		schools.GET("/period-grid", settingsHandler.Grid)
		schools.GET("/reservations/check", settingsHandler.CheckReservation)
	}

	timetable := api.Group("/timetable")
	{
		timetable.GET("/entries", timetableHandler.ListBySection)
		timetable.POST("/entries", staff, timetableHandler.Propose)
		timetable.PATCH("/entries/:id", staff, timetableHandler.Reassign)
		timetable.DELETE("/entries/:id", staff, timetableHandler.Delete)
	}

	teachers := api.Group("/teachers/:id")
	{
		teachers.GET("/schedule", scheduleHandler.Get)
		teachers.GET("/schedule/links", scheduleHandler.ListLinks)
		teachers.POST("/schedule/links", staff, scheduleHandler.Link)
		teachers.DELETE("/schedule/links/:linkId", staff, scheduleHandler.Unlink)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Create)
		sessions.GET("", sessionHandler.ListBySection)
		sessions.GET("/project-date", sessionHandler.ProjectDate)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.PATCH("/:id", sessionHandler.Update)
		sessions.DELETE("/:id", sessionHandler.Delete)
		sessions.POST("/:id/plans", sessionHandler.AddPlan)
		sessions.GET("/:id/plans", sessionHandler.ListPlans)
		sessions.DELETE("/:id/plans", sessionHandler.DeletePlans)
		sessions.GET("/:id/schedule", sessionHandler.Schedule)
	}
	api.PATCH("/session-plans/:planId", sessionHandler.UpdatePlanStatus)

	memberships := api.Group("/memberships", staff)
	{
		memberships.POST("/teachers", membershipHandler.AddTeacher)
		memberships.GET("/teachers/:id", membershipHandler.ListTeacherSchools)
		memberships.DELETE("/teachers/:id", membershipHandler.RemoveTeacher)
		memberships.POST("/managers", membershipHandler.AddManager)
		memberships.GET("/managers/:id", membershipHandler.ListManagerSchools)
		memberships.DELETE("/managers/:id", membershipHandler.RemoveManager)
	}

	if cfg.Exports.Enabled {
		exports := api.Group("/exports")
		{
			exports.GET("/section-timetable", exportHandler.SectionTimetable)
			exports.GET("/teachers/:id/schedule", exportHandler.TeacherSchedule)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
