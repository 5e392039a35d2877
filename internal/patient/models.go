// Package patient reshapes FHIR records into the demographic and clinical
// summaries the dashboard renders and embeds into prompts.
package patient

import "errors"

// Record-quality errors. All of them abort the current page render.
var (
	// ErrNoAddress means the patient record carries no address, so the
	// environmental lookup has nothing to resolve.
	ErrNoAddress = errors.New("patient record has no address")

	// ErrMultipleAddresses means the record carries more than one address
	// and no single location can be chosen for the patient.
	ErrMultipleAddresses = errors.New("patient record has multiple addresses")

	// ErrMissingConditionName means a condition resource has neither a
	// precomposed text name nor a coding with a display string.
	ErrMissingConditionName = errors.New("condition has no human-readable name")

	// ErrMissingMedicationName means a medication administration resource
	// has no human-readable medication element at all.
	ErrMissingMedicationName = errors.New("medication administration has no human-readable name")
)

// Sex is the administrative gender of a patient.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexOther   Sex = "other"
	SexUnknown Sex = "unknown"
)

// Unknown is the placeholder for absent demographic fields.
const Unknown = "Unknown"

// Demographics is the extracted identity of one patient.
type Demographics struct {
	// Name is the official name when one exists, else the first listed.
	Name string

	// Sex is the administrative gender, SexUnknown when absent.
	Sex Sex

	// BirthDate is the FHIR date string, or "Unknown" when absent.
	BirthDate string

	// Address is the single resolvable postal address as one string.
	Address string
}

// ConditionSummary is one condition reduced to its display fields.
type ConditionSummary struct {
	Name               string
	ClinicalStatus     string
	VerificationStatus string
}

// MedicationSummary is one medication administration reduced to its display
// fields.
type MedicationSummary struct {
	Name   string
	Status string
}
