package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/repository/mongodb"
	"github.com/mamadbah2/loftkeeper/internal/repository/sheets"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore"
	"github.com/mamadbah2/loftkeeper/internal/scheduler"
	"github.com/mamadbah2/loftkeeper/internal/server/handlers"
	"github.com/mamadbah2/loftkeeper/internal/server/router"
	authsvc "github.com/mamadbah2/loftkeeper/internal/service/auth"
	birdsvc "github.com/mamadbah2/loftkeeper/internal/service/birds"
	breedingsvc "github.com/mamadbah2/loftkeeper/internal/service/breeding"
	dashboardsvc "github.com/mamadbah2/loftkeeper/internal/service/dashboard"
	inventorysvc "github.com/mamadbah2/loftkeeper/internal/service/inventory"
	loftsvc "github.com/mamadbah2/loftkeeper/internal/service/lofts"
	nutritionsvc "github.com/mamadbah2/loftkeeper/internal/service/nutrition"
	reportingsvc "github.com/mamadbah2/loftkeeper/internal/service/reporting"
	tasksvc "github.com/mamadbah2/loftkeeper/internal/service/tasks"
	whatsappclient "github.com/mamadbah2/loftkeeper/pkg/clients/whatsapp"
	"github.com/mamadbah2/loftkeeper/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.Open(ctx, cfg.Database, baseLogger.Named("repo.sql"))
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close database", zap.Error(err))
		}
	}()
	if err := store.Migrate(ctx); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	db := store.DB()
	userRepo := sqlstore.NewUserRepository(db)
	loftRepo := sqlstore.NewLoftRepository(db)
	birdRepo := sqlstore.NewBirdRepository(db)
	breedingRepo := sqlstore.NewBreedingRepository(db)

	authSvc := authsvc.NewService(userRepo, cfg.Auth, baseLogger.Named("svc.auth"))
	loftSvc := loftsvc.NewService(loftRepo, baseLogger.Named("svc.lofts"))
	birdSvc := birdsvc.NewService(birdRepo, loftRepo, baseLogger.Named("svc.birds"))
	taskSvc := tasksvc.NewService(sqlstore.NewTaskRepository(db), loftRepo, baseLogger.Named("svc.tasks"))
	nutritionSvc := nutritionsvc.NewService(sqlstore.NewNutritionRepository(db), loftRepo, baseLogger.Named("svc.nutrition"))
	breedingSvc := breedingsvc.NewService(breedingRepo, birdRepo, baseLogger.Named("svc.breeding"))
	inventorySvc := inventorysvc.NewService(sqlstore.NewInventoryRepository(db), baseLogger.Named("svc.inventory"))
	dashboardSvc := dashboardsvc.NewService(dashboardsvc.Sources{
		Lofts:     loftRepo,
		Birds:     birdSvc,
		Tasks:     taskSvc,
		Breeding:  breedingRepo,
		Inventory: inventorySvc,
	}, baseLogger.Named("svc.dashboard"))

	var sinks reportingsvc.Sinks
	if cfg.MongoEnabled() {
		archive, err := mongodb.NewReportArchive(ctx, cfg.MongoDB)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb report archive", zap.Error(err))
		}
		defer func() {
			if err := archive.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks.Archive = archive
	} else {
		baseLogger.Warn("MONGODB_URI missing, report archive disabled")
	}
	if cfg.SheetsEnabled() {
		sheet, err := sheets.NewReportSheet(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets export", zap.Error(err))
		}
		sinks.Exporter = sheet
	} else {
		baseLogger.Warn("GOOGLE_SHEET_ID missing, sheets export disabled")
	}
	if cfg.WhatsAppEnabled() {
		sinks.Notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp reminders enabled")
	} else {
		baseLogger.Warn("WHATSAPP_TOKEN missing, reminders disabled")
	}
	reportingSvc := reportingsvc.NewService(dashboardSvc, userRepo, sinks, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Health:    handlers.NewHealthHandler(store, baseLogger.Named("handlers.health")),
		Auth:      handlers.NewAuthHandler(authSvc, cfg.Auth, baseLogger.Named("handlers.auth")),
		Lofts:     handlers.NewLoftHandler(loftSvc, baseLogger.Named("handlers.lofts")),
		Birds:     handlers.NewBirdHandler(birdSvc, baseLogger.Named("handlers.birds")),
		Tasks:     handlers.NewTaskHandler(taskSvc, baseLogger.Named("handlers.tasks")),
		Nutrition: handlers.NewNutritionHandler(nutritionSvc, baseLogger.Named("handlers.nutrition")),
		Breeding:  handlers.NewBreedingHandler(breedingSvc, baseLogger.Named("handlers.breeding")),
		Inventory: handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, baseLogger.Named("handlers.dashboard")),
	}, authSvc, cfg.Auth.CookieName, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
