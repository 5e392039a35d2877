package airquality

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Default aggregation windows and limits.
const (
	// DefaultHistoryHours is the fixed look-back window ending at "now".
	DefaultHistoryHours = 720

	// DefaultForecastHours is the forecast horizon. The forecast window
	// starts one hour after "now".
	DefaultForecastHours = 96

	// DefaultMaxPages bounds each pagination loop. A full 720-hour history
	// at the provider's minimum page size of 100 rows is 8 pages, so this
	// leaves generous slack while still catching a runaway token.
	DefaultMaxPages = 40
)

// Provider fetches raw readings from the three environmental-index endpoints.
type Provider interface {
	// History returns one page of the hourly look-back window ending now.
	History(ctx context.Context, lat, lon float64, hours int, pageToken string) (*Page, error)

	// Current returns the single reading for the present hour.
	Current(ctx context.Context, lat, lon float64) (Reading, error)

	// Forecast returns one page of hourly forecasts for [start, end].
	Forecast(ctx context.Context, lat, lon float64, start, end time.Time, pageToken string) (*Page, error)
}

// AggregatorConfig holds configuration for the aggregator.
type AggregatorConfig struct {
	// Provider is the environmental-index data provider.
	Provider Provider

	// Logger for aggregation operations.
	Logger zerolog.Logger

	// HistoryHours overrides the look-back window (default: 720).
	HistoryHours int

	// ForecastHours overrides the forecast horizon (default: 96).
	ForecastHours int

	// MaxPages bounds each pagination loop (default: 40).
	MaxPages int
}

// Aggregator merges history, current, and forecast readings into one series.
type Aggregator struct {
	provider      Provider
	logger        zerolog.Logger
	historyHours  int
	forecastHours int
	maxPages      int
}

// NewAggregator creates a new aggregator.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	historyHours := cfg.HistoryHours
	if historyHours == 0 {
		historyHours = DefaultHistoryHours
	}

	forecastHours := cfg.ForecastHours
	if forecastHours == 0 {
		forecastHours = DefaultForecastHours
	}

	maxPages := cfg.MaxPages
	if maxPages == 0 {
		maxPages = DefaultMaxPages
	}

	return &Aggregator{
		provider:      cfg.Provider,
		logger:        cfg.Logger,
		historyHours:  historyHours,
		forecastHours: forecastHours,
		maxPages:      maxPages,
	}
}

// Aggregate fetches the three endpoints sequentially and merges their
// readings into one series keyed by instant.
//
// Merge order is history, then current, then forecast: when two stages
// report the same instant the later stage wins. In particular a forecast
// reading at the exact current instant overwrites the current observation.
// Any stage failure discards everything collected so far, so callers never
// see a silently sparse series.
func (a *Aggregator) Aggregate(ctx context.Context, lat, lon float64, now time.Time) (*Series, error) {
	now = now.UTC()
	series := NewSeries()

	if err := a.collectHistory(ctx, series, lat, lon); err != nil {
		return nil, &DataError{Stage: StageHistory, Err: err}
	}

	current, err := a.provider.Current(ctx, lat, lon)
	if err != nil {
		return nil, &DataError{Stage: StageCurrent, Err: err}
	}
	series.Set(current.Time, current.AQI)

	start := now.Add(1 * time.Hour)
	end := now.Add(time.Duration(a.forecastHours) * time.Hour)
	if err := a.collectForecast(ctx, series, lat, lon, start, end); err != nil {
		return nil, &DataError{Stage: StageForecast, Err: err}
	}

	a.logger.Debug().
		Int("readings", series.Len()).
		Time("now", now).
		Msg("environmental readings aggregated")

	return series, nil
}

// collectHistory drains the paginated history endpoint into the series.
func (a *Aggregator) collectHistory(ctx context.Context, series *Series, lat, lon float64) error {
	pageToken := ""
	for page := 1; ; page++ {
		if page > a.maxPages {
			return fmt.Errorf("history page %d: %w", page, ErrTooManyPages)
		}

		result, err := a.provider.History(ctx, lat, lon, a.historyHours, pageToken)
		if err != nil {
			return fmt.Errorf("fetch history page %d: %w", page, err)
		}

		for _, r := range result.Readings {
			series.Set(r.Time, r.AQI)
		}

		if result.NextPageToken == "" {
			return nil
		}
		pageToken = result.NextPageToken
	}
}

// collectForecast drains the paginated forecast endpoint into the series.
func (a *Aggregator) collectForecast(ctx context.Context, series *Series, lat, lon float64, start, end time.Time) error {
	pageToken := ""
	for page := 1; ; page++ {
		if page > a.maxPages {
			return fmt.Errorf("forecast page %d: %w", page, ErrTooManyPages)
		}

		result, err := a.provider.Forecast(ctx, lat, lon, start, end, pageToken)
		if err != nil {
			return fmt.Errorf("fetch forecast page %d: %w", page, err)
		}

		for _, r := range result.Readings {
			series.Set(r.Time, r.AQI)
		}

		if result.NextPageToken == "" {
			return nil
		}
		pageToken = result.NextPageToken
	}
}
