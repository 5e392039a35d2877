// Package googleair provides a client for the Google Air Quality API.
package googleair

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smokespecialist/smokespecialist/internal/airquality"
	"github.com/smokespecialist/smokespecialist/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the Google Air Quality API.
	DefaultBaseURL = "https://airquality.googleapis.com/v1"

	// ProviderName identifies this provider.
	ProviderName = "googleair"
)

// ClientConfig holds configuration for the Google Air Quality client.
type ClientConfig struct {
	// APIKey is the Google API key (required).
	APIKey string

	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Google Air Quality API client implementing
// airquality.Provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Google Air Quality client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        cfg.Registry,
		})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API request/response types (from the Air Quality API).

type locationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type periodBody struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type historyRequest struct {
	Hours     int          `json:"hours"`
	PageSize  int          `json:"pageSize"`
	Location  locationBody `json:"location"`
	PageToken string       `json:"pageToken,omitempty"`
}

type currentRequest struct {
	Location locationBody `json:"location"`
}

type forecastRequest struct {
	UniversalAQI bool         `json:"universalAqi"`
	Location     locationBody `json:"location"`
	Period       periodBody   `json:"period"`
	PageToken    string       `json:"pageToken,omitempty"`
}

type indexInfo struct {
	AQI int `json:"aqi"`
}

type hourInfo struct {
	DateTime string      `json:"dateTime"`
	Indexes  []indexInfo `json:"indexes"`
}

type historyResponse struct {
	HoursInfo     []hourInfo `json:"hoursInfo"`
	NextPageToken string     `json:"nextPageToken"`
}

type currentResponse struct {
	DateTime string      `json:"dateTime"`
	Indexes  []indexInfo `json:"indexes"`
}

type forecastResponse struct {
	HourlyForecasts []hourInfo `json:"hourlyForecasts"`
	NextPageToken   string     `json:"nextPageToken"`
}

// History fetches one page of the hourly look-back window ending now.
// Hourly rows missing a timestamp or index are skipped: the API emits empty
// rows for hours with no coverage at the location.
func (c *Client) History(ctx context.Context, lat, lon float64, hours int, pageToken string) (*airquality.Page, error) {
	body := historyRequest{
		Hours:     hours,
		PageSize:  hours,
		Location:  locationBody{Latitude: lat, Longitude: lon},
		PageToken: pageToken,
	}

	var result historyResponse
	if err := c.post(ctx, "history:lookup", body, &result); err != nil {
		return nil, err
	}

	page := &airquality.Page{NextPageToken: result.NextPageToken}
	for _, h := range result.HoursInfo {
		r, ok := toReading(h)
		if !ok {
			continue
		}
		page.Readings = append(page.Readings, r)
	}

	return page, nil
}

// Current fetches the single reading for the present hour.
func (c *Client) Current(ctx context.Context, lat, lon float64) (airquality.Reading, error) {
	body := currentRequest{
		Location: locationBody{Latitude: lat, Longitude: lon},
	}

	var result currentResponse
	if err := c.post(ctx, "currentConditions:lookup", body, &result); err != nil {
		return airquality.Reading{}, err
	}

	r, ok := toReading(hourInfo{DateTime: result.DateTime, Indexes: result.Indexes})
	if !ok {
		return airquality.Reading{}, fmt.Errorf("current conditions missing dateTime or indexes: %w", airquality.ErrNoReadings)
	}

	return r, nil
}

// Forecast fetches one page of hourly forecasts for [start, end]. Unlike
// history, a forecast row missing its timestamp or index is an error.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, start, end time.Time, pageToken string) (*airquality.Page, error) {
	body := forecastRequest{
		UniversalAQI: true,
		Location:     locationBody{Latitude: lat, Longitude: lon},
		Period: periodBody{
			StartTime: start.UTC().Format(time.RFC3339),
			EndTime:   end.UTC().Format(time.RFC3339),
		},
		PageToken: pageToken,
	}

	var result forecastResponse
	if err := c.post(ctx, "forecast:lookup", body, &result); err != nil {
		return nil, err
	}

	page := &airquality.Page{NextPageToken: result.NextPageToken}
	for _, h := range result.HourlyForecasts {
		r, ok := toReading(h)
		if !ok {
			return nil, fmt.Errorf("hourly forecast missing dateTime or indexes: %w", airquality.ErrNoReadings)
		}
		page.Readings = append(page.Readings, r)
	}

	return page, nil
}

// post executes a JSON lookup call against the given endpoint.
func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s endpoint", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	return nil
}

// toReading converts an API hourly row to a domain reading.
func toReading(h hourInfo) (airquality.Reading, bool) {
	if h.DateTime == "" || len(h.Indexes) == 0 {
		return airquality.Reading{}, false
	}

	t, err := time.Parse(time.RFC3339, h.DateTime)
	if err != nil {
		return airquality.Reading{}, false
	}

	return airquality.Reading{Time: t.UTC(), AQI: h.Indexes[0].AQI}, true
}
