package googleair_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokespecialist/smokespecialist/internal/airquality/googleair"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *googleair.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return googleair.NewClient(googleair.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
}

func TestHistory_ParsesReadingsAndToken(t *testing.T) {
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history:lookup", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = w.Write([]byte(`{
			"hoursInfo": [
				{"dateTime": "2026-08-15T10:00:00Z", "indexes": [{"aqi": 41}]},
				{"dateTime": "2026-08-15T11:00:00Z"},
				{"dateTime": "2026-08-15T12:00:00Z", "indexes": [{"aqi": 44}]}
			],
			"nextPageToken": "tok-2"
		}`))
	})

	page, err := client.History(context.Background(), 52.37, 4.89, 720, "")
	require.NoError(t, err)

	assert.Equal(t, float64(720), gotBody["hours"])
	assert.Equal(t, float64(720), gotBody["pageSize"])
	assert.NotContains(t, gotBody, "pageToken")

	// The 11:00 row has no indexes and is skipped.
	require.Len(t, page.Readings, 2)
	assert.Equal(t, 41, page.Readings[0].AQI)
	assert.Equal(t, time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC), page.Readings[1].Time)
	assert.Equal(t, "tok-2", page.NextPageToken)
}

func TestHistory_SendsContinuationToken(t *testing.T) {
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"hoursInfo": []}`))
	})

	page, err := client.History(context.Background(), 52.37, 4.89, 720, "tok-2")
	require.NoError(t, err)

	assert.Equal(t, "tok-2", gotBody["pageToken"])
	assert.Empty(t, page.NextPageToken)
	assert.Empty(t, page.Readings)
}

func TestCurrent_ParsesSingleReading(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/currentConditions:lookup", r.URL.Path)
		_, _ = w.Write([]byte(`{"dateTime": "2026-08-15T12:00:00Z", "indexes": [{"aqi": 48}, {"aqi": 51}]}`))
	})

	reading, err := client.Current(context.Background(), 52.37, 4.89)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC), reading.Time)
	// First listed index is the one reported.
	assert.Equal(t, 48, reading.AQI)
}

func TestCurrent_MissingFieldsIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dateTime": "2026-08-15T12:00:00Z"}`))
	})

	_, err := client.Current(context.Background(), 52.37, 4.89)
	require.Error(t, err)
}

func TestForecast_SendsWindowAndParses(t *testing.T) {
	var gotBody map[string]interface{}
	start := time.Date(2026, 8, 15, 13, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast:lookup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{
			"hourlyForecasts": [
				{"dateTime": "2026-08-15T13:00:00Z", "indexes": [{"aqi": 60}]}
			]
		}`))
	})

	page, err := client.Forecast(context.Background(), 52.37, 4.89, start, end, "")
	require.NoError(t, err)

	assert.Equal(t, true, gotBody["universalAqi"])
	period := gotBody["period"].(map[string]interface{})
	assert.Equal(t, "2026-08-15T13:00:00Z", period["startTime"])
	assert.Equal(t, "2026-08-19T12:00:00Z", period["endTime"])

	require.Len(t, page.Readings, 1)
	assert.Equal(t, 60, page.Readings[0].AQI)
}

func TestForecast_IncompleteRowIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hourlyForecasts": [{"dateTime": "2026-08-15T13:00:00Z"}]}`))
	})

	_, err := client.Forecast(context.Background(), 52.37, 4.89, time.Now(), time.Now().Add(96*time.Hour), "")
	require.Error(t, err)
}

func TestLookup_Non200Status(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.History(context.Background(), 52.37, 4.89, 720, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
}
