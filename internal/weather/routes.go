package weather

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the weather endpoints under /weather.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/weather", func(r chi.Router) {
		r.Get("/regions", h.Regions)
		r.Get("/regions/{regionID}/prefectures", h.Prefectures)
		r.Get("/prefectures/{code}/forecast", h.Forecast)
		r.Get("/prefectures/{code}/history", h.History)
		r.Post("/catalog/refresh", h.RefreshCatalog)
	})
}
