package fhir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smokespecialist/smokespecialist/internal/provider/resilience"
)

// DefaultMaxPages bounds search pagination. A patient record with more pages
// of conditions than this almost certainly indicates a looping next link.
const DefaultMaxPages = 50

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the FHIR client.
type ClientConfig struct {
	// BaseURL is the FHIR server base (e.g. "https://ehr.example.org/fhir").
	BaseURL string

	// AccessToken is the bearer token of the authenticated session. The
	// session itself is established externally at SMART launch.
	AccessToken string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 10s).
	Timeout time.Duration

	// MaxPages bounds search pagination (default: 50).
	MaxPages int

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry
}

// Client is a FHIR R4 REST client scoped to one server.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  HTTPDoer
	maxPages    int
}

// NewClient creates a new FHIR client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "fhir",
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        cfg.Registry,
		})
	}

	maxPages := cfg.MaxPages
	if maxPages == 0 {
		maxPages = DefaultMaxPages
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		httpClient:  httpClient,
		maxPages:    maxPages,
	}
}

// Patient reads the Patient resource for the given ID.
func (c *Client) Patient(ctx context.Context, id string) (*Patient, error) {
	var patient Patient
	endpoint := fmt.Sprintf("%s/Patient/%s", c.baseURL, url.PathEscape(id))
	if err := c.get(ctx, endpoint, &patient); err != nil {
		return nil, err
	}

	if patient.ResourceType != "Patient" {
		return nil, fmt.Errorf("expected Patient, got %q: %w", patient.ResourceType, ErrMalformedResource)
	}

	return &patient, nil
}

// Conditions searches all Condition resources for a patient, following
// bundle next links until exhausted.
func (c *Client) Conditions(ctx context.Context, patientID string) ([]Condition, error) {
	var conditions []Condition

	err := c.searchAll(ctx, "Condition", patientID, func(raw json.RawMessage) error {
		var condition Condition
		if err := json.Unmarshal(raw, &condition); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResource, err)
		}
		if condition.ResourceType != "Condition" {
			return nil // Bundles may interleave OperationOutcome entries.
		}
		conditions = append(conditions, condition)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conditions, nil
}

// MedicationAdministrations searches all MedicationAdministration resources
// for a patient, following bundle next links until exhausted.
func (c *Client) MedicationAdministrations(ctx context.Context, patientID string) ([]MedicationAdministration, error) {
	var administrations []MedicationAdministration

	err := c.searchAll(ctx, "MedicationAdministration", patientID, func(raw json.RawMessage) error {
		var admin MedicationAdministration
		if err := json.Unmarshal(raw, &admin); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResource, err)
		}
		if admin.ResourceType != "MedicationAdministration" {
			return nil
		}
		administrations = append(administrations, admin)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return administrations, nil
}

// searchAll walks a patient-scoped search across all result pages, handing
// each entry's raw resource to collect.
func (c *Client) searchAll(ctx context.Context, resource, patientID string, collect func(json.RawMessage) error) error {
	next := fmt.Sprintf("%s/%s?patient=%s", c.baseURL, resource, url.QueryEscape(patientID))

	for page := 1; next != ""; page++ {
		if page > c.maxPages {
			return fmt.Errorf("%s search page %d: %w", resource, page, ErrTooManyPages)
		}

		var bundle Bundle
		if err := c.get(ctx, next, &bundle); err != nil {
			return fmt.Errorf("fetch %s page %d: %w", resource, page, err)
		}
		if bundle.ResourceType != "Bundle" {
			return fmt.Errorf("expected Bundle, got %q: %w", bundle.ResourceType, ErrMalformedResource)
		}

		for _, entry := range bundle.Entry {
			if len(entry.Resource) == 0 {
				continue
			}
			if err := collect(entry.Resource); err != nil {
				return err
			}
		}

		next = bundle.NextLink()
	}

	return nil
}

// get executes an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/fhir+json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d from FHIR server", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResource, err)
	}

	return nil
}
