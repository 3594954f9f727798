// Package jma fetches forecasts and the area list from the Japan
// Meteorological Agency's public bosai endpoints.
package jma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"calc-weather/internal/region"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the root of JMA's bosai JSON API.
const DefaultBaseURL = "https://www.jma.go.jp/bosai"

// StatusError is returned when JMA answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Client talks to the JMA API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL with the given request timeout. The
// transport is traced so each fetch shows up as a child span.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Forecast fetches the forecast reports for a prefecture office code.
func (c *Client) Forecast(ctx context.Context, officeCode string) ([]Report, error) {
	var reports []Report
	url := fmt.Sprintf("%s/forecast/data/forecast/%s.json", c.baseURL, officeCode)
	if err := c.getJSON(ctx, url, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// AreaCatalog fetches area.json and derives the region catalog from it.
func (c *Client) AreaCatalog(ctx context.Context) (region.Catalog, error) {
	var area region.AreaJSON
	if err := c.getJSON(ctx, c.baseURL+"/common/const/area.json", &area); err != nil {
		return nil, err
	}
	return region.FromAreaJSON(area)
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformed, url, err)
	}
	return nil
}

// IsNotFound reports whether err is a 404 from JMA, which is what an unknown
// office code produces.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
