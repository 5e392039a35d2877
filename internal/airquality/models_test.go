package airquality_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokespecialist/smokespecialist/internal/airquality"
)

func TestSeries_SetAndGet(t *testing.T) {
	s := airquality.NewSeries()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	s.Set(at, 42)

	aqi, ok := s.Get(at)
	require.True(t, ok)
	assert.Equal(t, 42, aqi)
	assert.Equal(t, 1, s.Len())
}

func TestSeries_LastWriteWins(t *testing.T) {
	s := airquality.NewSeries()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	s.Set(at, 42)
	s.Set(at, 57)

	aqi, ok := s.Get(at)
	require.True(t, ok)
	assert.Equal(t, 57, aqi)
	assert.Equal(t, 1, s.Len())
}

func TestSeries_NormalizesToUTC(t *testing.T) {
	s := airquality.NewSeries()
	amsterdam := time.FixedZone("CEST", 2*60*60)
	local := time.Date(2026, 8, 1, 14, 0, 0, 0, amsterdam)
	utc := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	s.Set(local, 42)

	aqi, ok := s.Get(utc)
	require.True(t, ok)
	assert.Equal(t, 42, aqi)
	assert.Equal(t, 1, s.Len())
}

func TestSeries_SortedAscending(t *testing.T) {
	s := airquality.NewSeries()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order.
	s.Set(base.Add(5*time.Hour), 50)
	s.Set(base, 10)
	s.Set(base.Add(2*time.Hour), 20)

	readings := s.Sorted()
	require.Len(t, readings, 3)
	assert.Equal(t, base, readings[0].Time)
	assert.Equal(t, base.Add(2*time.Hour), readings[1].Time)
	assert.Equal(t, base.Add(5*time.Hour), readings[2].Time)
}

func TestSeries_MergeIdempotent(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	other := airquality.NewSeries()
	for i := 0; i < 24; i++ {
		other.Set(base.Add(time.Duration(i)*time.Hour), i)
	}

	s := airquality.NewSeries()
	s.Merge(other)
	s.Merge(other)

	assert.Equal(t, 24, s.Len())
}

func TestDataError_Unwrap(t *testing.T) {
	err := &airquality.DataError{
		Stage: airquality.StageForecast,
		Err:   airquality.ErrTooManyPages,
	}

	assert.ErrorIs(t, err, airquality.ErrTooManyPages)
	assert.Contains(t, err.Error(), "forecast")
}
