package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/teachdesk/planner-api/api/swagger"
	"github.com/teachdesk/planner-api/internal/handler"
	"github.com/teachdesk/planner-api/internal/middleware"
	"github.com/teachdesk/planner-api/internal/repository"
	"github.com/teachdesk/planner-api/internal/service"
	"github.com/teachdesk/planner-api/internal/store"
	"github.com/teachdesk/planner-api/pkg/cache"
	"github.com/teachdesk/planner-api/pkg/config"
	"github.com/teachdesk/planner-api/pkg/database"
	"github.com/teachdesk/planner-api/pkg/logger"
	corsmiddleware "github.com/teachdesk/planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/teachdesk/planner-api/pkg/middleware/requestid"
)

// @title Planner API
// @version 0.1.0
// @description Recurring timetable projection and lesson sequence planning
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

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	recordStore, err := newRecordStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage", "driver", cfg.Storage.Driver, "error", err)
	}
	recordStore = store.NewInstrumentedStore(recordStore, metrics)

	validate := validator.New()

	timetableRepo := repository.NewTimetableRepository(recordStore)
	holidayRepo := repository.NewHolidayRepository(recordStore)
	sequenceRepo := repository.NewSequenceRepository(recordStore)
	bindingRepo := repository.NewBindingRepository(recordStore)
	legacyRepo := repository.NewLegacyContentRepository(recordStore)

	importSvc := service.NewImportService(timetableRepo, logr)
	occurrenceSvc := service.NewOccurrenceService(timetableRepo, holidayRepo, metrics, logr, cfg.Planner.HorizonWeeks)
	sequenceSvc := service.NewSequenceService(sequenceRepo, validate, logr)
	bindingSvc := service.NewBindingService(bindingRepo, sequenceRepo, occurrenceSvc, validate, logr)
	remapSvc := service.NewRemapService(timetableRepo, sequenceRepo, bindingRepo, legacyRepo, logr, cfg.Planner.HorizonWeeks)
	holidaySvc := service.NewHolidayService(holidayRepo, remapSvc, validate, logr)

	timetableHandler := handler.NewTimetableHandler(importSvc)
	holidayHandler := handler.NewHolidayHandler(holidaySvc)
	lessonHandler := handler.NewLessonHandler(sequenceSvc)
	scheduleHandler := handler.NewScheduleHandler(bindingSvc)
	plannerHandler := handler.NewPlannerHandler(occurrenceSvc, bindingSvc, remapSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/timetable/import", timetableHandler.Import)
		api.GET("/timetable", timetableHandler.Get)

		api.GET("/holidays", holidayHandler.List)
		api.POST("/holidays", holidayHandler.Add)
		api.DELETE("/holidays/:id", holidayHandler.Remove)

		classes := api.Group("/classes/:classId")
		{
			classes.GET("/occurrences", plannerHandler.Occurrences)
			classes.GET("/planner", plannerHandler.Planner)
			classes.POST("/migrate", plannerHandler.Migrate)

			classes.GET("/lessons", lessonHandler.List)
			classes.GET("/lessons/grouped", lessonHandler.ListGrouped)
			classes.POST("/lessons", lessonHandler.Append)
			classes.PUT("/lessons/reorder", lessonHandler.Reorder)
			classes.PUT("/lessons/:lessonId", lessonHandler.Update)
			classes.DELETE("/lessons/:lessonId", lessonHandler.Delete)

			classes.GET("/schedule", scheduleHandler.Get)
			classes.POST("/schedule/push-back", scheduleHandler.PushBack)
			classes.POST("/schedule/reset", scheduleHandler.Reset)
			classes.POST("/schedule/sync", scheduleHandler.Sync)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newRecordStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client), nil
	case config.StorageDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return store.NewFilesystemStore(cfg.Storage.Dir)
	}
}
