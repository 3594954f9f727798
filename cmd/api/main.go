package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"calc-weather/internal/calculator"
	"calc-weather/internal/jma"
	"calc-weather/internal/observability"
	"calc-weather/internal/region"
	"calc-weather/internal/server"
	"calc-weather/internal/storage"
	"calc-weather/internal/weather"
)

func main() {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Config
	if err := loadDotEnv(); err != nil {
		panic(err)
	}
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	if cfg.OTelLogs {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			panic(err)
		}
		defer logShutdown(context.Background())
	}

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(context.Background())

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(context.Background())

	// Storage
	store, err := storage.NewSQLite(ctx, cfg.WeatherDBPath)
	if err != nil {
		observability.Logger.Fatal("open weather store", zap.String("path", cfg.WeatherDBPath), zap.Error(err))
	}
	defer store.Close()

	if err := store.SeedCatalog(ctx, region.Default); err != nil {
		observability.Logger.Fatal("seed region catalog", zap.Error(err))
	}

	// Domains
	sessions := calculator.NewSessions(cfg.SessionTTL)
	go sessions.RunExpiry(ctx, time.Minute)

	calc := calculator.NewHandler(sessions)
	wx := weather.NewHandler(store, jma.NewClient(cfg.JMABaseURL, cfg.JMATimeout), region.Default)

	// Router
	router := server.NewRouter(calc, wx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("listen", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("shutdown", zap.Error(err))
	}
}
