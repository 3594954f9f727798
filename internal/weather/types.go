package weather

import (
	"calc-weather/internal/jma"
	"calc-weather/internal/region"
	"calc-weather/internal/storage"
)

// Messages shown to users when a forecast cannot be produced.
const (
	MsgFetchFailed = "天気情報の取得に失敗しました。"
	MsgParseFailed = "天気情報の解析に失敗しました。"
)

// RegionsResponse is the JSON response for GET /weather/regions.
type RegionsResponse struct {
	Regions []storage.RegionRow `json:"regions"`
}

// PrefecturesResponse is the JSON response for GET /weather/regions/{regionID}/prefectures.
type PrefecturesResponse struct {
	RegionID    int                     `json:"region_id"`
	Prefectures []storage.PrefectureRow `json:"prefectures"`
}

// ForecastResponse is the JSON response for GET /weather/prefectures/{code}/forecast.
type ForecastResponse struct {
	Prefecture       region.Prefecture `json:"prefecture"`
	RegionID         int               `json:"region_id"`
	PublishingOffice string            `json:"publishing_office"`
	Date             string            `json:"date"`
	Areas            []jma.AreaWeather `json:"areas"`
	Text             string            `json:"text"`
}

// HistoryResponse is the JSON response for GET /weather/prefectures/{code}/history.
type HistoryResponse struct {
	Prefecture region.Prefecture  `json:"prefecture"`
	Forecasts  []storage.Forecast `json:"forecasts"`
}

// RefreshResponse is the JSON response for POST /weather/catalog/refresh.
type RefreshResponse struct {
	Regions     int `json:"regions"`
	Prefectures int `json:"prefectures"`
}
