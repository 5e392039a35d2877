package patient

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smokespecialist/smokespecialist/internal/fhir"
)

// SummarizeMedications reduces MedicationAdministration resources to display
// rows, in source order.
//
// Name resolution: the codeable concept's text form, then its first coding
// with a display string, then the medication reference's display, else
// ErrMissingMedicationName. An absent status becomes "Unknown".
func SummarizeMedications(administrations []fhir.MedicationAdministration) ([]MedicationSummary, error) {
	summaries := make([]MedicationSummary, 0, len(administrations))

	for i := range administrations {
		m := &administrations[i]

		name := medicationName(m)
		if name == "" {
			return nil, fmt.Errorf("medication administration %q: %w", m.ID, ErrMissingMedicationName)
		}

		status := m.Status
		if status == "" {
			status = Unknown
		}

		summaries = append(summaries, MedicationSummary{Name: name, Status: status})
	}

	return summaries, nil
}

// SortMedicationsByStatus returns a copy sorted ascending by status, stable
// on ties.
func SortMedicationsByStatus(summaries []MedicationSummary) []MedicationSummary {
	sorted := make([]MedicationSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Status < sorted[j].Status
	})
	return sorted
}

// MedicationNames joins the medication names with ", " in source order.
func MedicationNames(summaries []MedicationSummary) string {
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func medicationName(m *fhir.MedicationAdministration) string {
	if m.MedicationCodeableConcept != nil {
		if m.MedicationCodeableConcept.Text != "" {
			return m.MedicationCodeableConcept.Text
		}
		for _, coding := range m.MedicationCodeableConcept.Coding {
			if coding.Display != "" {
				return coding.Display
			}
		}
	}
	if m.MedicationReference != nil && m.MedicationReference.Display != "" {
		return m.MedicationReference.Display
	}
	return ""
}
