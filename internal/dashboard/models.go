// Package dashboard assembles the per-request patient risk dashboard: the
// clinical record summary, the environmental reading series, and the
// generated advisory.
package dashboard

import (
	"time"

	"github.com/smokespecialist/smokespecialist/internal/airquality"
	"github.com/smokespecialist/smokespecialist/internal/geocode"
	"github.com/smokespecialist/smokespecialist/internal/patient"
)

// Dashboard is the complete view model for one patient page load. It is
// built atomically: a failure in any stage yields no dashboard at all.
type Dashboard struct {
	// PatientID is the FHIR logical ID the dashboard was built for.
	PatientID string `json:"patient_id"`

	// Demographics are the extracted patient details.
	Demographics patient.Demographics `json:"demographics"`

	// Conditions are the summarized conditions, sorted by clinical status.
	Conditions []patient.ConditionSummary `json:"conditions"`

	// Medications are the summarized medication administrations, sorted
	// by status.
	Medications []patient.MedicationSummary `json:"medications"`

	// Coordinate is the geocoded patient address.
	Coordinate geocode.Coordinate `json:"coordinate"`

	// MapURL is the embeddable map frame URL for the address.
	MapURL string `json:"map_url"`

	// Observed holds readings up to and including now, ascending.
	Observed []airquality.Reading `json:"observed"`

	// Forecast holds readings from now onward, ascending. The reading at
	// exactly now appears in both segments.
	Forecast []airquality.Reading `json:"forecast"`

	// Advisory is the generated consultation text.
	Advisory string `json:"advisory"`

	// GeneratedAt is the reference instant the dashboard was built for.
	GeneratedAt time.Time `json:"generated_at"`
}
