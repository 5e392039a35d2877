// Package chart prepares reading series for time-series rendering.
package chart

import (
	"time"

	"github.com/smokespecialist/smokespecialist/internal/airquality"
)

// Split partitions a merged reading series into the observed (solid) and
// forecast (dotted) chart segments relative to now.
//
// A reading at exactly now lands in both segments so the two chart traces
// join without a visual gap. Both segments come back sorted ascending by
// timestamp; the series itself guarantees no ordering.
func Split(series *airquality.Series, now time.Time) (observed, forecast []airquality.Reading) {
	now = now.UTC()

	for _, r := range series.Sorted() {
		if !r.Time.After(now) {
			observed = append(observed, r)
		}
		if !r.Time.Before(now) {
			forecast = append(forecast, r)
		}
	}

	return observed, forecast
}
