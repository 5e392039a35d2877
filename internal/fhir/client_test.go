package fhir_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokespecialist/smokespecialist/internal/fhir"
)

func newTestClient(t *testing.T, handler http.Handler) (*fhir.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := fhir.NewClient(fhir.ClientConfig{
		BaseURL:     server.URL,
		AccessToken: "session-token",
		HTTPClient:  server.Client(),
	})
	return client, server
}

func TestPatient_Read(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Patient/pat-1", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/fhir+json", r.Header.Get("Accept"))

		_, _ = w.Write([]byte(`{
			"resourceType": "Patient",
			"id": "pat-1",
			"gender": "female",
			"birthDate": "1968-04-02",
			"name": [{"use": "official", "family": "Smit", "given": ["Anna"]}],
			"address": [{"text": "123 Main St, Springfield"}]
		}`))
	}))

	patient, err := client.Patient(context.Background(), "pat-1")
	require.NoError(t, err)

	assert.Equal(t, "pat-1", patient.ID)
	assert.Equal(t, "female", patient.Gender)
	require.Len(t, patient.Name, 1)
	assert.Equal(t, "official", patient.Name[0].Use)
	require.Len(t, patient.Address, 1)
	assert.Equal(t, "123 Main St, Springfield", patient.Address[0].Text)
}

func TestPatient_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.Patient(context.Background(), "missing")
	assert.ErrorIs(t, err, fhir.ErrNotFound)
}

func TestConditions_FollowsNextLinks(t *testing.T) {
	var server *httptest.Server
	calls := 0

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/Condition", r.URL.Path)

		switch r.URL.Query().Get("page") {
		case "":
			assert.Equal(t, "pat-1", r.URL.Query().Get("patient"))
			fmt.Fprintf(w, `{
				"resourceType": "Bundle",
				"type": "searchset",
				"link": [{"relation": "next", "url": "%s/Condition?patient=pat-1&page=2"}],
				"entry": [
					{"resource": {"resourceType": "Condition", "id": "c1", "code": {"text": "Asthma"}}},
					{"resource": {"resourceType": "OperationOutcome"}}
				]
			}`, server.URL)
		case "2":
			_, _ = w.Write([]byte(`{
				"resourceType": "Bundle",
				"type": "searchset",
				"entry": [
					{"resource": {"resourceType": "Condition", "id": "c2", "code": {"coding": [{"display": "COPD"}]}}}
				]
			}`))
		}
	})

	client, s := newTestClient(t, handler)
	server = s

	conditions, err := client.Conditions(context.Background(), "pat-1")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, conditions, 2, "OperationOutcome entries are skipped")
	assert.Equal(t, "c1", conditions[0].ID)
	assert.Equal(t, "c2", conditions[1].ID)
}

func TestConditions_PageCap(t *testing.T) {
	var server *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every page points at itself: a looping next link.
		fmt.Fprintf(w, `{
			"resourceType": "Bundle",
			"link": [{"relation": "next", "url": "%s/Condition?patient=pat-1&page=loop"}]
		}`, server.URL)
	})

	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)
	server = s

	client := fhir.NewClient(fhir.ClientConfig{
		BaseURL:    s.URL,
		HTTPClient: s.Client(),
		MaxPages:   3,
	})

	_, err := client.Conditions(context.Background(), "pat-1")
	assert.ErrorIs(t, err, fhir.ErrTooManyPages)
}

func TestMedicationAdministrations_Search(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/MedicationAdministration", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"resourceType": "Bundle",
			"entry": [
				{"resource": {"resourceType": "MedicationAdministration", "id": "m1",
					"medicationCodeableConcept": {"text": "Salbutamol"}, "status": "completed"}}
			]
		}`))
	}))

	administrations, err := client.MedicationAdministrations(context.Background(), "pat-1")
	require.NoError(t, err)

	require.Len(t, administrations, 1)
	assert.Equal(t, "Salbutamol", administrations[0].MedicationCodeableConcept.Text)
	assert.Equal(t, "completed", administrations[0].Status)
}

func TestConditions_MalformedBundle(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resourceType": "Patient"}`))
	}))

	_, err := client.Conditions(context.Background(), "pat-1")
	assert.ErrorIs(t, err, fhir.ErrMalformedResource)
}
