package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ewintr.nl/ytdash/config"
	"ewintr.nl/ytdash/fetch"
	"ewintr.nl/ytdash/handler"
	"ewintr.nl/ytdash/process"
	"ewintr.nl/ytdash/storage"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	if cfg == nil {
		return
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("service stopped")
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	channels, err := config.LoadChannels(cfg.ChannelsFile)
	if err != nil {
		return err
	}

	var videoRepo storage.VideoRepository
	switch cfg.Storage {
	case config.StoragePostgres:
		postgres, err := storage.NewPostgres(cfg.PostgresInfo())
		if err != nil {
			return fmt.Errorf("unable to connect to postgres: %w", err)
		}
		defer postgres.Close()
		videoRepo = postgres
	default:
		videoRepo = storage.NewCSVStore(cfg.CachePath)
	}

	if cfg.APIKey() == "" {
		logger.Warn("no youtube api key configured, every request will fail")
	}
	ytClient, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey()))
	if err != nil {
		return fmt.Errorf("unable to create youtube service: %w", err)
	}
	yt := fetch.NewYoutube(ytClient)

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	selector := fetch.NewSelector(videoRepo, fetch.DefaultPolicy(), logger)
	fetcher := fetch.NewFetcher(yt, yt, cfg.MaxPages, limiter, logger)
	pipeline := process.NewPipeline(videoRepo, selector, fetcher, channels, logger)

	if cfg.Once {
		report, err := pipeline.Sync(ctx)
		if err != nil {
			return err
		}
		for _, w := range report.Warnings {
			logger.Warn("fetch warning", slog.String("warning", w.Error()))
		}
		return nil
	}

	go pipeline.Run(ctx, cfg.Interval)
	logger.Info("sync pipeline started", slog.Int("channels", len(channels)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler.NewServer(videoRepo, pipeline, channels, logger),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
			stop()
		}
	}()
	logger.Info("http server started", slog.Int("port", cfg.Port))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
