// Package airquality aggregates hourly air-quality-index readings for a
// location across history, current-conditions, and forecast endpoints.
package airquality

import (
	"errors"
	"sort"
	"time"
)

// Aggregation errors.
var (
	// ErrTooManyPages is returned when a paginated endpoint keeps handing
	// out continuation tokens past the configured page cap. It is distinct
	// from transport failure so a runaway token loop is diagnosable.
	ErrTooManyPages = errors.New("pagination exceeded maximum page count")

	// ErrNoReadings is returned when an endpoint succeeds but yields no
	// usable readings at all.
	ErrNoReadings = errors.New("no readings returned")
)

// Stage identifies which endpoint of the aggregation failed.
type Stage string

const (
	StageHistory  Stage = "history"
	StageCurrent  Stage = "current"
	StageForecast Stage = "forecast"
)

// DataError wraps any failure during environmental data aggregation.
// Partial results are always discarded when one is returned.
type DataError struct {
	Stage Stage
	Err   error
}

func (e *DataError) Error() string {
	return "environmental data: " + string(e.Stage) + " stage failed: " + e.Err.Error()
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Reading is a single hourly air-quality-index observation.
type Reading struct {
	// Time is the UTC instant the index applies to.
	Time time.Time

	// AQI is the integer index value.
	AQI int
}

// Page is one page of readings from a paginated endpoint. An empty
// NextPageToken marks the final page.
type Page struct {
	Readings      []Reading
	NextPageToken string
}

// Series is a set of readings keyed by instant. Keys are unique; setting a
// reading for an instant that is already present overwrites the stored value
// (last write wins). Insertion order is not preserved, consumers iterate via
// Sorted.
type Series struct {
	values map[int64]Reading
}

// NewSeries creates an empty series.
func NewSeries() *Series {
	return &Series{values: make(map[int64]Reading)}
}

// Set records a reading, overwriting any reading already stored for the same
// instant. Timestamps are normalized to UTC.
func (s *Series) Set(t time.Time, aqi int) {
	utc := t.UTC()
	s.values[utc.Unix()] = Reading{Time: utc, AQI: aqi}
}

// Get returns the index value for an instant.
func (s *Series) Get(t time.Time) (int, bool) {
	r, ok := s.values[t.UTC().Unix()]
	if !ok {
		return 0, false
	}
	return r.AQI, true
}

// Len returns the number of distinct instants in the series.
func (s *Series) Len() int {
	return len(s.values)
}

// Sorted returns all readings in ascending timestamp order.
func (s *Series) Sorted() []Reading {
	readings := make([]Reading, 0, len(s.values))
	for _, r := range s.values {
		readings = append(readings, r)
	}
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Time.Before(readings[j].Time)
	})
	return readings
}

// Merge copies every reading from other into s, overwriting collisions.
// Merging identical inputs twice is idempotent.
func (s *Series) Merge(other *Series) {
	for _, r := range other.values {
		s.Set(r.Time, r.AQI)
	}
}
