package patient

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smokespecialist/smokespecialist/internal/fhir"
)

// SummarizeConditions reduces Condition resources to display rows, in
// source order.
//
// Name resolution: precomposed code text, then the first coding with a
// display string, else ErrMissingConditionName. Status resolution: the
// precomposed text form overrides the coded status when both exist, and an
// absent status becomes "Unknown". Source resources are never mutated.
func SummarizeConditions(conditions []fhir.Condition) ([]ConditionSummary, error) {
	summaries := make([]ConditionSummary, 0, len(conditions))

	for i := range conditions {
		c := &conditions[i]

		name, err := conceptName(c.Code)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", c.ID, ErrMissingConditionName)
		}

		summaries = append(summaries, ConditionSummary{
			Name:               name,
			ClinicalStatus:     conceptStatus(c.ClinicalStatus),
			VerificationStatus: conceptStatus(c.VerificationStatus),
		})
	}

	return summaries, nil
}

// SortConditionsByStatus returns a copy sorted ascending by clinical status.
// The sort is stable: rows with equal status keep their source order.
func SortConditionsByStatus(summaries []ConditionSummary) []ConditionSummary {
	sorted := make([]ConditionSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ClinicalStatus < sorted[j].ClinicalStatus
	})
	return sorted
}

// ConditionNames joins the condition names with ", " in source order, the
// form embedded into the risk prompt.
func ConditionNames(summaries []ConditionSummary) string {
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// conceptName resolves the human-readable name of a codeable concept:
// text form first, then the first coding carrying a display string.
func conceptName(concept *fhir.CodeableConcept) (string, error) {
	if concept == nil {
		return "", ErrMissingConditionName
	}
	if concept.Text != "" {
		return concept.Text, nil
	}
	for _, coding := range concept.Coding {
		if coding.Display != "" {
			return coding.Display, nil
		}
	}
	return "", ErrMissingConditionName
}

// conceptStatus resolves a status concept: the text form overrides the first
// coding's code, absent means "Unknown".
func conceptStatus(concept *fhir.CodeableConcept) string {
	if concept == nil {
		return Unknown
	}
	if concept.Text != "" {
		return concept.Text
	}
	if len(concept.Coding) > 0 && concept.Coding[0].Code != "" {
		return concept.Coding[0].Code
	}
	return Unknown
}
