// Package googlemaps provides a client for the Google Geocoding API.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smokespecialist/smokespecialist/internal/geocode"
	"github.com/smokespecialist/smokespecialist/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the Google Geocoding API.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"

	// ProviderName identifies this provider.
	ProviderName = "googlemaps"
)

// ClientConfig holds configuration for the Google Geocoding client.
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

// Client is a Google Geocoding API client implementing geocode.Geocoder.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Google Geocoding client.
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

// API response types (from the Geocoding API).

type locationResult struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometryResult struct {
	Location locationResult `json:"location"`
}

type geocodeResult struct {
	Geometry geometryResult `json:"geometry"`
}

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}

// Geocode resolves a postal address to a coordinate, taking the first
// candidate when the address is ambiguous.
func (c *Client) Geocode(ctx context.Context, address string) (geocode.Coordinate, error) {
	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/geocode/json?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("create geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geocode.Coordinate{}, fmt.Errorf("unexpected status %d from geocode endpoint", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return geocode.Coordinate{}, fmt.Errorf("decode geocode response: %w", err)
	}

	switch result.Status {
	case "OK":
	case "ZERO_RESULTS":
		return geocode.Coordinate{}, fmt.Errorf("geocode %q: %w", address, geocode.ErrAddressNotFound)
	default:
		return geocode.Coordinate{}, fmt.Errorf("geocode status %q", result.Status)
	}

	if len(result.Results) == 0 {
		return geocode.Coordinate{}, fmt.Errorf("geocode %q: %w", address, geocode.ErrAddressNotFound)
	}

	loc := result.Results[0].Geometry.Location
	return geocode.Coordinate{Lat: loc.Lat, Lon: loc.Lng}, nil
}
