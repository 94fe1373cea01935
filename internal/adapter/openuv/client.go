// Package openuv fetches current and forecast UV payloads from the OpenUV
// API. Responses are decoded loosely (any JSON shape) and handed to the
// domain layer for normalization; this package makes no assumptions about
// field names or value types beyond the HTTP envelope.
package openuv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/uvwatch/uv-forecast-service/internal/config"
	"github.com/uvwatch/uv-forecast-service/internal/domain"
	"github.com/uvwatch/uv-forecast-service/internal/observability"
)

// Client implements pipeline.Fetcher against the OpenUV API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
}

// NewClient creates an OpenUV API client.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
	}
}

// FetchCurrent retrieves the current UV reading for a location, including
// the pass-through scalars (daily max, safe exposure times, sun times).
func (c *Client) FetchCurrent(ctx context.Context, loc config.Location) (map[string]any, error) {
	payload, err := c.doRequest(ctx, "/uv", "current", loc)
	if err != nil {
		return nil, err
	}
	return domain.ExtractCurrentRecord(payload), nil
}

// FetchForecast retrieves the hourly UV forecast for a location as raw
// records, unwrapped from whatever envelope the API used.
func (c *Client) FetchForecast(ctx context.Context, loc config.Location) ([]domain.RawForecastRecord, error) {
	payload, err := c.doRequest(ctx, "/forecast", "forecast", loc)
	if err != nil {
		return nil, err
	}
	return domain.ExtractForecastRecords(payload), nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, label string, loc config.Location) (any, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(loc.Lat, 'f', 4, 64)},
		"lng": {strconv.FormatFloat(loc.Lon, 'f', 4, 64)},
	}
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-access-token", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(label, start, false)
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.observe(label, start, false)
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openuv API error: status %d: %s", resp.StatusCode, body)
	}
	c.observe(label, start, true)

	// UseNumber keeps integer timestamps exact instead of forcing float64
	// early; the domain layer coerces numbers itself.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

func (c *Client) observe(endpoint string, start time.Time, ok bool) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
