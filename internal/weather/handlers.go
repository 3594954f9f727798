package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"calc-weather/internal/handlers"
	"calc-weather/internal/jma"
	"calc-weather/internal/observability"
	"calc-weather/internal/region"
	"calc-weather/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("weather")

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Store persists the catalog and fetched forecasts.
type Store interface {
	SeedCatalog(ctx context.Context, c region.Catalog) error
	ListRegions(ctx context.Context) ([]storage.RegionRow, error)
	ListPrefectures(ctx context.Context, regionID int) ([]storage.PrefectureRow, error)
	SaveForecasts(ctx context.Context, forecasts []storage.Forecast) error
	ListForecasts(ctx context.Context, prefectureCode string, limit int) ([]storage.Forecast, error)
}

// Fetcher retrieves data from JMA.
type Fetcher interface {
	Forecast(ctx context.Context, officeCode string) ([]jma.Report, error)
	AreaCatalog(ctx context.Context) (region.Catalog, error)
}

// Handler serves the /weather endpoints.
type Handler struct {
	store   Store
	fetcher Fetcher
	now     func() time.Time

	mu      sync.RWMutex
	catalog region.Catalog
}

// NewHandler returns a Handler that resolves prefecture codes against catalog.
func NewHandler(store Store, fetcher Fetcher, catalog region.Catalog) *Handler {
	return &Handler{
		store:   store,
		fetcher: fetcher,
		now:     time.Now,
		catalog: catalog,
	}
}

func (h *Handler) lookup(code string) (region.Prefecture, region.Region, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog.Prefecture(code)
}

// Regions handles GET /weather/regions
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regions, err := h.store.ListRegions(ctx)
	if err != nil {
		h.fail(ctx, w, "regions", "could not list regions", err, http.StatusInternalServerError)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, RegionsResponse{Regions: regions})
}

// Prefectures handles GET /weather/regions/{regionID}/prefectures
func (h *Handler) Prefectures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regionID, err := strconv.Atoi(chi.URLParam(r, "regionID"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid region id")
		return
	}

	prefs, err := h.store.ListPrefectures(ctx, regionID)
	if err != nil {
		h.fail(ctx, w, "prefectures", "could not list prefectures", err, http.StatusInternalServerError)
		return
	}
	if len(prefs) == 0 {
		handlers.WriteError(w, http.StatusNotFound, "unknown region")
		return
	}
	handlers.WriteJSON(w, http.StatusOK, PrefecturesResponse{RegionID: regionID, Prefectures: prefs})
}

// Forecast handles GET /weather/prefectures/{code}/forecast. It fetches the
// current forecast from JMA, stores it, and returns it.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	code := chi.URLParam(r, "code")

	pref, reg, ok := h.lookup(code)
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "unknown prefecture")
		return
	}

	ctx, span := tracer.Start(ctx, "weather.forecast",
		trace.WithAttributes(
			attribute.String("weather.prefecture", code),
			attribute.Int("weather.region", reg.ID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	start := time.Now()
	reports, err := h.fetcher.Forecast(ctx, code)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		msg := MsgFetchFailed
		if errors.Is(err, jma.ErrMalformed) {
			msg = MsgParseFailed
		}
		observability.RecordError(ctx, span, logger, errorCounter, "forecast", msg, err, http.StatusBadGateway, w, attribute.String("prefecture", code))
		return
	}

	attrs := metric.WithAttributes(attribute.String("prefecture", code))
	fetchCounter.Add(ctx, 1, attrs)
	fetchHistogram.Record(ctx, elapsed, attrs)

	summary, err := jma.Summarize(reports)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "forecast", MsgParseFailed, err, http.StatusBadGateway, w, attribute.String("prefecture", code))
		return
	}

	fetchedAt := h.now()
	rows := make([]storage.Forecast, 0, len(summary.Areas))
	for _, a := range summary.Areas {
		rows = append(rows, storage.Forecast{
			PrefectureCode: code,
			AreaName:       a.Area,
			Date:           summary.Date,
			Text:           a.Weather,
			FetchedAt:      fetchedAt,
		})
	}
	if err := h.store.SaveForecasts(ctx, rows); err != nil {
		// The forecast is still shown when it cannot be stored.
		span.RecordError(err)
		logger.Error("could not save forecast",
			zap.String("prefecture", code),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
	}

	span.SetAttributes(attribute.Int("weather.areas", len(summary.Areas)))
	span.SetStatus(codes.Ok, "")

	logger.Info("forecast fetched",
		zap.String("prefecture", code),
		zap.String("name", pref.Name),
		zap.Int("areas", len(summary.Areas)),
		zap.Float64("duration_ms", elapsed),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ForecastResponse{
		Prefecture:       pref,
		RegionID:         reg.ID,
		PublishingOffice: summary.PublishingOffice,
		Date:             summary.Date,
		Areas:            summary.Areas,
		Text:             summary.Text(),
	})
}

// History handles GET /weather/prefectures/{code}/history?limit=N
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	pref, _, ok := h.lookup(code)
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "unknown prefecture")
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	forecasts, err := h.store.ListForecasts(ctx, code, limit)
	if err != nil {
		h.fail(ctx, w, "history", "could not list forecasts", err, http.StatusInternalServerError)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, HistoryResponse{Prefecture: pref, Forecasts: forecasts})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxHistoryLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxHistoryLimit)
	}
	return n, nil
}

// RefreshCatalog handles POST /weather/catalog/refresh. It rebuilds the catalog
// from JMA's area list and seeds any new entries.
func (h *Handler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "weather.catalog.refresh")
	defer span.End()

	catalog, err := h.fetcher.AreaCatalog(ctx)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", "could not fetch area list", err, http.StatusBadGateway, w)
		return
	}

	if err := h.store.SeedCatalog(ctx, catalog); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", "could not store area list", err, http.StatusInternalServerError, w)
		return
	}

	h.mu.Lock()
	h.catalog = catalog
	h.mu.Unlock()

	resp := RefreshResponse{Regions: len(catalog)}
	for _, reg := range catalog {
		resp.Prefectures += len(reg.Prefectures)
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("region catalog refreshed",
		zap.Int("regions", resp.Regions),
		zap.Int("prefectures", resp.Prefectures),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// fail records a storage failure on a fresh span and writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, opName, msg string, err error, status int) {
	ctx, span := tracer.Start(ctx, "weather."+opName)
	defer span.End()
	observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, opName, msg, err, status, w)
}
