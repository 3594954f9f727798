package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"calc-weather/internal/jma"
)

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// config is the process configuration, read from the environment.
type config struct {
	Addr            string
	LogLevel        string
	OTelLogs        bool
	WeatherDBPath   string
	JMABaseURL      string
	JMATimeout      time.Duration
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:            getenv("HTTP_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		WeatherDBPath:   getenv("WEATHER_DB_PATH", "weather.db"),
		JMABaseURL:      getenv("JMA_BASE_URL", jma.DefaultBaseURL),
		JMATimeout:      10 * time.Second,
		SessionTTL:      30 * time.Minute,
		ShutdownTimeout: 5 * time.Second,
	}

	var err error
	if cfg.OTelLogs, err = boolEnv("OTEL_LOGS_ENABLED", false); err != nil {
		return config{}, err
	}
	if cfg.JMATimeout, err = durationEnv("JMA_TIMEOUT", cfg.JMATimeout); err != nil {
		return config{}, err
	}
	if cfg.SessionTTL, err = durationEnv("CALC_SESSION_TTL", cfg.SessionTTL); err != nil {
		return config{}, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
