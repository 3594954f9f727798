package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"calc-weather/internal/calculator"
	"calc-weather/internal/handlers"
	"calc-weather/internal/observability"
	"calc-weather/internal/weather"
)

func NewRouter(calc *calculator.Handler, wx *weather.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calc)
	weather.RegisterRoutes(r, wx)

	return r
}
