package jma

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a response does not have the expected shape.
var ErrMalformed = errors.New("malformed forecast data")

// Report is one element of a forecast response. JMA returns the short-range
// report first, followed by the weekly one.
type Report struct {
	PublishingOffice string       `json:"publishingOffice"`
	ReportDatetime   string       `json:"reportDatetime"`
	TimeSeries       []TimeSeries `json:"timeSeries"`
}

// TimeSeries pairs a list of instants with per-area values for each instant.
type TimeSeries struct {
	TimeDefines []string     `json:"timeDefines"`
	Areas       []AreaSeries `json:"areas"`
}

// AreaSeries holds the values for one sub-area.
type AreaSeries struct {
	Area struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"area"`
	Weathers []string `json:"weathers"`
}

// AreaWeather is the first weather text for one sub-area.
type AreaWeather struct {
	Area    string `json:"area"`
	Code    string `json:"code"`
	Weather string `json:"weather"`
}

// Summary is the current forecast for every sub-area of a prefecture.
type Summary struct {
	PublishingOffice string        `json:"publishing_office"`
	Date             string        `json:"date"`
	Areas            []AreaWeather `json:"areas"`
}

// Summarize takes the first weather entry of every area in the first time
// series of the first report.
func Summarize(reports []Report) (Summary, error) {
	if len(reports) == 0 {
		return Summary{}, fmt.Errorf("%w: no reports", ErrMalformed)
	}
	r := reports[0]
	if len(r.TimeSeries) == 0 {
		return Summary{}, fmt.Errorf("%w: no time series", ErrMalformed)
	}
	ts := r.TimeSeries[0]
	if len(ts.TimeDefines) == 0 || len(ts.Areas) == 0 {
		return Summary{}, fmt.Errorf("%w: empty time series", ErrMalformed)
	}

	s := Summary{
		PublishingOffice: r.PublishingOffice,
		Date:             ts.TimeDefines[0],
		Areas:            make([]AreaWeather, 0, len(ts.Areas)),
	}
	for _, a := range ts.Areas {
		if len(a.Weathers) == 0 {
			return Summary{}, fmt.Errorf("%w: area %s has no weathers", ErrMalformed, a.Area.Code)
		}
		s.Areas = append(s.Areas, AreaWeather{
			Area:    a.Area.Name,
			Code:    a.Area.Code,
			Weather: a.Weathers[0],
		})
	}
	return s, nil
}

// Text renders the summary as display lines, one "area: weather" per sub-area
// under a 天気情報 heading.
func (s Summary) Text() string {
	var b strings.Builder
	b.WriteString("天気情報:")
	for _, a := range s.Areas {
		b.WriteString("\n")
		b.WriteString(a.Area)
		b.WriteString(": ")
		b.WriteString(a.Weather)
	}
	return b.String()
}
