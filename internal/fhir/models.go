// Package fhir provides a typed subset of FHIR R4 resources and a search
// client for the health-record server.
package fhir

import (
	"encoding/json"
	"errors"
)

// Client errors.
var (
	// ErrNotFound is returned when the server has no resource for the ID.
	ErrNotFound = errors.New("resource not found")

	// ErrMalformedResource is returned when a response body cannot be
	// decoded as the expected resource.
	ErrMalformedResource = errors.New("malformed resource")

	// ErrTooManyPages is returned when a search keeps producing bundle
	// "next" links past the configured page cap.
	ErrTooManyPages = errors.New("search exceeded maximum page count")
)

// Coding is one entry of a coded value.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept carries a coded value with an optional precomposed text
// form. Text, when present, takes priority over the codings.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Reference points at another resource, optionally with a display string.
type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

// HumanName is one name entry of a patient.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// Address is a postal address with an optional precomposed text form.
type Address struct {
	Use        string   `json:"use,omitempty"`
	Text       string   `json:"text,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	District   string   `json:"district,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

// Patient is the demographic resource for one person.
type Patient struct {
	ResourceType string      `json:"resourceType"`
	ID           string      `json:"id,omitempty"`
	Name         []HumanName `json:"name,omitempty"`
	Gender       string      `json:"gender,omitempty"`
	BirthDate    string      `json:"birthDate,omitempty"`
	Address      []Address   `json:"address,omitempty"`
}

// Condition is one clinical condition owned by a patient.
type Condition struct {
	ResourceType       string           `json:"resourceType"`
	ID                 string           `json:"id,omitempty"`
	Code               *CodeableConcept `json:"code,omitempty"`
	ClinicalStatus     *CodeableConcept `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept `json:"verificationStatus,omitempty"`
}

// MedicationAdministration records one administration of a medication.
// The medication itself is either a codeable concept or a reference.
type MedicationAdministration struct {
	ResourceType              string           `json:"resourceType"`
	ID                        string           `json:"id,omitempty"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
	MedicationReference       *Reference       `json:"medicationReference,omitempty"`
	Status                    string           `json:"status,omitempty"`
}

// BundleLink is a paging link of a search bundle.
type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// BundleEntry wraps one resource of a search bundle.
type BundleEntry struct {
	Resource json.RawMessage `json:"resource"`
}

// Bundle is a FHIR searchset bundle.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type,omitempty"`
	Total        int           `json:"total,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

// NextLink returns the URL of the bundle's "next" paging link, or "" when
// this is the final page.
func (b *Bundle) NextLink() string {
	for _, link := range b.Link {
		if link.Relation == "next" {
			return link.URL
		}
	}
	return ""
}
