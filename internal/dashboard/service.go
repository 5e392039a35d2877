package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokespecialist/smokespecialist/internal/advisory"
	"github.com/smokespecialist/smokespecialist/internal/airquality"
	"github.com/smokespecialist/smokespecialist/internal/audit"
	"github.com/smokespecialist/smokespecialist/internal/chart"
	"github.com/smokespecialist/smokespecialist/internal/fhir"
	"github.com/smokespecialist/smokespecialist/internal/geocode"
	"github.com/smokespecialist/smokespecialist/internal/patient"
)

// RecordsClient reads the clinical resources the dashboard needs.
type RecordsClient interface {
	Patient(ctx context.Context, id string) (*fhir.Patient, error)
	Conditions(ctx context.Context, patientID string) ([]fhir.Condition, error)
	MedicationAdministrations(ctx context.Context, patientID string) ([]fhir.MedicationAdministration, error)
}

// ReadingAggregator merges environmental readings for a coordinate.
type ReadingAggregator interface {
	Aggregate(ctx context.Context, lat, lon float64, now time.Time) (*airquality.Series, error)
}

// ProviderMetrics records duration and outcome of upstream provider calls.
type ProviderMetrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	// Records is the health-record client (required).
	Records RecordsClient

	// Geocoder resolves the patient address (required).
	Geocoder geocode.Geocoder

	// Aggregator fetches environmental readings (required).
	Aggregator ReadingAggregator

	// Generator produces the advisory text (required).
	Generator advisory.Generator

	// Audit records dashboard accesses. Optional; accesses are not
	// recorded when nil.
	Audit audit.Repository

	// Metrics records upstream call timings. Optional.
	Metrics ProviderMetrics

	// MapsAPIKey is embedded in the map frame URL.
	MapsAPIKey string

	// Logger for dashboard operations.
	Logger zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service builds patient dashboards.
type Service struct {
	records    RecordsClient
	geocoder   geocode.Geocoder
	aggregator ReadingAggregator
	generator  advisory.Generator
	audit      audit.Repository
	metrics    ProviderMetrics
	mapsAPIKey string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		records:    cfg.Records,
		geocoder:   cfg.Geocoder,
		aggregator: cfg.Aggregator,
		generator:  cfg.Generator,
		audit:      cfg.Audit,
		metrics:    cfg.Metrics,
		mapsAPIKey: cfg.MapsAPIKey,
		logger:     cfg.Logger,
		now:        now,
	}
}

// records fetched concurrently before extraction starts.
type clinicalRecord struct {
	patient         *fhir.Patient
	conditions      []fhir.Condition
	administrations []fhir.MedicationAdministration
}

// Build assembles the complete dashboard for a patient. The subject is the
// authenticated viewer, recorded in the access log. Any stage failure aborts
// the whole build; no partial dashboard is ever returned.
func (s *Service) Build(ctx context.Context, patientID, subject string) (*Dashboard, error) {
	now := s.now().UTC()

	d, err := s.build(ctx, patientID, now)

	outcome := audit.OutcomeSuccess
	if err != nil {
		outcome = audit.OutcomeFailure
	}
	s.recordAccess(ctx, patientID, subject, outcome, now)

	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) build(ctx context.Context, patientID string, now time.Time) (*Dashboard, error) {
	start := time.Now()
	record, err := s.fetchRecords(ctx, patientID)
	s.observe("fhir", "fetch_records", start, err)
	if err != nil {
		return nil, err
	}

	demographics, err := patient.ExtractDemographics(record.patient)
	if err != nil {
		return nil, err
	}

	conditions, err := patient.SummarizeConditions(record.conditions)
	if err != nil {
		return nil, err
	}

	medications, err := patient.SummarizeMedications(record.administrations)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	coord, err := s.geocoder.Geocode(ctx, demographics.Address)
	s.observe("geocode", "geocode", start, err)
	if err != nil {
		return nil, fmt.Errorf("geocode patient address: %w", err)
	}

	start = time.Now()
	series, err := s.aggregator.Aggregate(ctx, coord.Lat, coord.Lon, now)
	s.observe("airquality", "aggregate", start, err)
	if err != nil {
		return nil, err
	}

	observed, forecast := chart.Split(series, now)

	prompt := advisory.BuildPrompt(advisory.PromptInput{
		Sex:         demographics.Sex,
		BirthDate:   demographics.BirthDate,
		Conditions:  patient.ConditionNames(conditions),
		Medications: patient.MedicationNames(medications),
		Now:         now,
		Readings:    series,
	})

	start = time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	s.observe("gemini", "generate", start, err)
	if err != nil {
		return nil, fmt.Errorf("generate advisory: %w", err)
	}

	s.logger.Info().
		Str("patient_id", patientID).
		Int("readings", series.Len()).
		Int("conditions", len(conditions)).
		Msg("dashboard built")

	return &Dashboard{
		PatientID:    patientID,
		Demographics: demographics,
		Conditions:   patient.SortConditionsByStatus(conditions),
		Medications:  patient.SortMedicationsByStatus(medications),
		Coordinate:   coord,
		MapURL:       geocode.EmbedURL(s.mapsAPIKey, demographics.Address),
		Observed:     observed,
		Forecast:     forecast,
		Advisory:     text,
		GeneratedAt:  now,
	}, nil
}

// fetchRecords issues the three record reads concurrently and joins them.
// The first error wins; remaining fetches are abandoned via context
// cancellation.
func (s *Service) fetchRecords(ctx context.Context, patientID string) (*clinicalRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var record clinicalRecord
	errs := make(chan error, 3)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		p, err := s.records.Patient(ctx, patientID)
		if err != nil {
			errs <- fmt.Errorf("fetch patient: %w", err)
			cancel()
			return
		}
		record.patient = p
	}()

	go func() {
		defer wg.Done()
		conditions, err := s.records.Conditions(ctx, patientID)
		if err != nil {
			errs <- fmt.Errorf("fetch conditions: %w", err)
			cancel()
			return
		}
		record.conditions = conditions
	}()

	go func() {
		defer wg.Done()
		administrations, err := s.records.MedicationAdministrations(ctx, patientID)
		if err != nil {
			errs <- fmt.Errorf("fetch medication administrations: %w", err)
			cancel()
			return
		}
		record.administrations = administrations
	}()

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) observe(provider, operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRequest(provider, operation, time.Since(start), err)
}

// recordAccess writes the audit event. Failures are logged, never surfaced:
// an unavailable audit store must not take the dashboard down with it.
func (s *Service) recordAccess(ctx context.Context, patientID, subject, outcome string, at time.Time) {
	if s.audit == nil {
		return
	}

	event := audit.NewEvent(patientID, subject, "dashboard.view", outcome, at)
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Error().
			Err(err).
			Str("patient_id", patientID).
			Msg("failed to record access event")
	}
}
