// Package audit records who viewed which patient's dashboard and when.
// Clinical access logs outlive the request, unlike every other entity in
// this service.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one recorded dashboard access.
type Event struct {
	// ID is the event's unique identifier.
	ID string `json:"id"`

	// PatientID is the FHIR logical ID of the patient whose record was
	// accessed.
	PatientID string `json:"patient_id"`

	// Subject identifies the authenticated viewer.
	Subject string `json:"subject"`

	// Action names what was done, e.g. "dashboard.view".
	Action string `json:"action"`

	// Outcome is "success" or "failure".
	Outcome string `json:"outcome"`

	// OccurredAt is when the access happened (UTC).
	OccurredAt time.Time `json:"occurred_at"`
}

// Outcome values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// NewEvent creates an event with a fresh ID and the given occurrence time.
func NewEvent(patientID, subject, action, outcome string, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		PatientID:  patientID,
		Subject:    subject,
		Action:     action,
		Outcome:    outcome,
		OccurredAt: occurredAt.UTC(),
	}
}
