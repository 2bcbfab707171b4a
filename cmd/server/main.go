package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/config"
	"github.com/kasetgo/kaset/internal/repository/imagestore"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
	"github.com/kasetgo/kaset/internal/repository/redisotp"
	"github.com/kasetgo/kaset/internal/repository/sheets"
	"github.com/kasetgo/kaset/internal/scheduler"
	"github.com/kasetgo/kaset/internal/server/handlers"
	"github.com/kasetgo/kaset/internal/server/router"
	authsvc "github.com/kasetgo/kaset/internal/service/auth"
	catalogsvc "github.com/kasetgo/kaset/internal/service/catalog"
	cctvsvc "github.com/kasetgo/kaset/internal/service/cctv"
	detectionsvc "github.com/kasetgo/kaset/internal/service/detection"
	harvestsvc "github.com/kasetgo/kaset/internal/service/harvest"
	historysvc "github.com/kasetgo/kaset/internal/service/history"
	notifysvc "github.com/kasetgo/kaset/internal/service/notify"
	plantingsvc "github.com/kasetgo/kaset/internal/service/planting"
	plotsvc "github.com/kasetgo/kaset/internal/service/plot"
	"github.com/kasetgo/kaset/pkg/clients/inference"
	"github.com/kasetgo/kaset/pkg/clients/telegram"
	"github.com/kasetgo/kaset/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var otpStore redisotp.Store
	if cfg.Redis.Addr != "" {
		otpStore, err = redisotp.NewStore(context.Background(), cfg.Redis, cfg.Auth.OTPTTL, cfg.Auth.ResetTicketTTL)
		if err != nil {
			baseLogger.Fatal("failed to init redis otp store", zap.Error(err))
		}
		baseLogger.Info("otp store enabled")
	} else {
		baseLogger.Warn("redis address missing, password reset disabled")
	}

	var images imagestore.Store
	if cfg.Storage.Endpoint != "" {
		images, err = imagestore.NewStore(context.Background(), cfg.Storage)
		if err != nil {
			baseLogger.Fatal("failed to init image store", zap.Error(err))
		}
		baseLogger.Info("image store enabled")
	} else {
		baseLogger.Warn("minio endpoint missing, image uploads disabled")
	}

	var sheetExporter sheets.Exporter
	if cfg.Sheets.SpreadsheetID != "" {
		sheetExporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheet exporter", zap.Error(err))
		}
		baseLogger.Info("sheet exporter enabled")
	} else {
		baseLogger.Warn("spreadsheet id missing, sheet export disabled")
	}

	var telegramClient telegram.Client
	if cfg.Telegram.BotToken != "" {
		telegramClient = telegram.NewClient(cfg.Telegram)
		baseLogger.Info("telegram client enabled")
	} else {
		baseLogger.Warn("telegram bot token missing, notifications disabled")
	}

	var inferenceClient inference.Client
	if cfg.Inference.BaseURL != "" {
		inferenceClient = inference.NewClient(cfg.Inference)
		baseLogger.Info("inference client enabled")
	} else {
		baseLogger.Warn("inference base url missing, detection disabled")
	}

	notifier := notifysvc.NewService(telegramClient, store.Users(), baseLogger.Named("svc.notify"))
	authService := authsvc.NewService(store.Users(), otpStore, notifier, cfg.Auth, baseLogger.Named("svc.auth"))
	catalogService := catalogsvc.NewService(store.Vegetables(), store.Diseases(), store.Pests(), baseLogger.Named("svc.catalog"))
	plotService := plotsvc.NewService(store.Plots(), baseLogger.Named("svc.plot"))
	plantingEngine := plantingsvc.NewEngine(store.Plots(), catalogService, baseLogger.Named("svc.planting"))
	harvestLedger := harvestsvc.NewLedger(store.Plots(), store.Harvests(), baseLogger.Named("svc.harvest"))
	historyAggregator := historysvc.NewAggregator(store.Plots(), store.Harvests(), sheetExporter, baseLogger.Named("svc.history"))
	detectionService := detectionsvc.NewService(inferenceClient, images, store.Detections(), baseLogger.Named("svc.detection"))
	cctvService := cctvsvc.NewService(store.Cameras(), baseLogger.Named("svc.cctv"))

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		Plot:      handlers.NewPlotHandler(plotService, plantingEngine, harvestLedger, historyAggregator, baseLogger.Named("handlers.plot")),
		Catalog:   handlers.NewCatalogHandler(catalogService, baseLogger.Named("handlers.catalog")),
		Detection: handlers.NewDetectionHandler(detectionService, baseLogger.Named("handlers.detection")),
		CCTV:      handlers.NewCCTVHandler(cctvService, baseLogger.Named("handlers.cctv")),
		Notify:    handlers.NewNotifyHandler(notifier, baseLogger.Named("handlers.notify")),
	}, authService, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reminder, store.Plots(), store.Users(), notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
