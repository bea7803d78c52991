package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/config"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
	"github.com/mamadbah2/stockyard/internal/repository/sheets"
	"github.com/mamadbah2/stockyard/internal/scheduler"
	"github.com/mamadbah2/stockyard/internal/server/handlers"
	"github.com/mamadbah2/stockyard/internal/server/router"
	herdssvc "github.com/mamadbah2/stockyard/internal/service/herds"
	portfoliosvc "github.com/mamadbah2/stockyard/internal/service/portfolio"
	"github.com/mamadbah2/stockyard/internal/service/pricing"
	"github.com/mamadbah2/stockyard/internal/service/valuation"
	"github.com/mamadbah2/stockyard/pkg/clients/mla"
	"github.com/mamadbah2/stockyard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Snapshot export to Google Sheets is optional.
	var exporter sheets.Exporter
	if cfg.Sheets.SpreadsheetID != "" {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheet snapshot export enabled")
	} else {
		baseLogger.Warn("sheet snapshot id missing, snapshot export disabled")
	}

	priceClient := mla.NewClient(cfg.Prices)
	resolver := pricing.NewResolver(priceClient, cfg.Prices, baseLogger.Named("svc.pricing"))
	engine := valuation.NewEngine(resolver, baseLogger.Named("svc.valuation"))

	herdSvc := herdssvc.NewService(mongoRepo, baseLogger.Named("svc.herds"))
	portfolioSvc := portfoliosvc.NewService(mongoRepo, mongoRepo, mongoRepo, exporter, engine, resolver, baseLogger.Named("svc.portfolio"))

	herdHandler := handlers.NewHerdHandler(herdSvc, baseLogger.Named("handlers.herds"))
	valuationHandler := handlers.NewValuationHandler(portfolioSvc, mongoRepo, mongoRepo, resolver, baseLogger.Named("handlers.valuation"))
	engineRouter := router.New(herdHandler, valuationHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler, mongoRepo, resolver, portfolioSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineRouter,
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
