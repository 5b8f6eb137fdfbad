package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/data"
	"github.com/KotFed0t/portfolio_tracker/data/cache"
	"github.com/KotFed0t/portfolio_tracker/data/repository/postgres"
	"github.com/KotFed0t/portfolio_tracker/data/session"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi/portfolioApi"
	"github.com/KotFed0t/portfolio_tracker/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/portfolio_tracker/internal/scheduler"
	"github.com/KotFed0t/portfolio_tracker/internal/service/portfolioService"
	"github.com/KotFed0t/portfolio_tracker/internal/tgbot"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	lastKnownPrices := cache.NewLastKnownPrices(cfg.Cache.LastKnownPricesExpiration)
	redisSession := session.NewRedisSession(redisClient, cfg)

	portfolioApiClient := portfolioApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	googleCloudStorage := googleDriveApi.New(ctx, cfg)

	portfolioSrv := portfolioService.New(
		cfg,
		pgRepo,
		redisCache,
		lastKnownPrices,
		portfolioApiClient,
		reportGenerator,
		googleCloudStorage,
	)

	sched := scheduler.New(cfg.Jobs.Timeout)
	sched.NewCrontabJob("save valuation snapshot", portfolioSrv.AutoSaveSnapshot, cfg.Jobs.SnapshotCrontab, false)
	sched.NewIntervalJob("warm prices cache", portfolioSrv.WarmPricesCache, cfg.Jobs.WarmPricesInterval, true)
	sched.NewIntervalJob("delete old reports", portfolioSrv.DeleteOldReports, cfg.Jobs.DeleteOldReportsInterval, false)
	sched.Start()
	defer sched.Stop()

	tgController := telegram.NewController(cfg, portfolioSrv, redisSession)

	tgBot := tgbot.New(cfg, tgController)
	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
