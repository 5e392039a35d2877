package chart_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokespecialist/smokespecialist/internal/airquality"
	"github.com/smokespecialist/smokespecialist/internal/chart"
)

func TestSplit_BoundaryReadingInBothSegments(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	series := airquality.NewSeries()
	series.Set(now.Add(-2*time.Hour), 40)
	series.Set(now.Add(-1*time.Hour), 42)
	series.Set(now, 48)
	series.Set(now.Add(1*time.Hour), 55)
	series.Set(now.Add(2*time.Hour), 60)

	observed, forecast := chart.Split(series, now)

	require.Len(t, observed, 3)
	require.Len(t, forecast, 3)

	// The boundary reading appears at the end of observed and the start of
	// forecast.
	assert.Equal(t, now, observed[2].Time)
	assert.Equal(t, now, forecast[0].Time)
	assert.Equal(t, 48, observed[2].AQI)
	assert.Equal(t, 48, forecast[0].AQI)
}

func TestSplit_PartitionInvariants(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	series := airquality.NewSeries()
	// Insert out of order to exercise sorting.
	for _, offset := range []int{30, -700, 5, -1, 96, -300, 1} {
		series.Set(now.Add(time.Duration(offset)*time.Hour), 40+offset%10)
	}

	observed, forecast := chart.Split(series, now)

	for _, r := range observed {
		assert.False(t, r.Time.After(now), "observed reading after now: %v", r.Time)
	}
	for _, r := range forecast {
		assert.False(t, r.Time.Before(now), "forecast reading before now: %v", r.Time)
	}

	for i := 1; i < len(observed); i++ {
		assert.True(t, observed[i-1].Time.Before(observed[i].Time))
	}
	for i := 1; i < len(forecast); i++ {
		assert.True(t, forecast[i-1].Time.Before(forecast[i].Time))
	}
}

func TestSplit_EmptySeries(t *testing.T) {
	observed, forecast := chart.Split(airquality.NewSeries(), time.Now())
	assert.Empty(t, observed)
	assert.Empty(t, forecast)
}
