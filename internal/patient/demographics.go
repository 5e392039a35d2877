package patient

import (
	"strings"

	"github.com/smokespecialist/smokespecialist/internal/fhir"
)

// ExtractDemographics reduces a Patient resource to the fields the dashboard
// shows and the prompt embeds.
//
// Name selection prefers the entry with the "official" use code, falling
// back to the first entry. Within an entry the precomposed text form wins
// over concatenated given + family names. Sex and birth date default to
// unknown when absent. Exactly one address must be present: zero or multiple
// addresses are hard errors for the whole request.
func ExtractDemographics(p *fhir.Patient) (Demographics, error) {
	address, err := extractAddress(p.Address)
	if err != nil {
		return Demographics{}, err
	}

	return Demographics{
		Name:      extractName(p.Name),
		Sex:       extractSex(p.Gender),
		BirthDate: extractBirthDate(p.BirthDate),
		Address:   address,
	}, nil
}

func extractName(names []fhir.HumanName) string {
	if len(names) == 0 {
		return Unknown
	}

	chosen := names[0]
	for _, n := range names {
		if n.Use == "official" {
			chosen = n
			break
		}
	}

	if chosen.Text != "" {
		return chosen.Text
	}

	parts := append([]string{}, chosen.Given...)
	if chosen.Family != "" {
		parts = append(parts, chosen.Family)
	}
	if len(parts) == 0 {
		return Unknown
	}
	return strings.Join(parts, " ")
}

func extractSex(gender string) Sex {
	switch gender {
	case "male":
		return SexMale
	case "female":
		return SexFemale
	case "other":
		return SexOther
	default:
		return SexUnknown
	}
}

func extractBirthDate(birthDate string) string {
	if birthDate == "" {
		return Unknown
	}
	return birthDate
}

// extractAddress enforces the single-address invariant and assembles the
// postal string: the precomposed text form when present, otherwise the
// non-empty components joined with ", ".
func extractAddress(addresses []fhir.Address) (string, error) {
	switch {
	case len(addresses) == 0:
		return "", ErrNoAddress
	case len(addresses) > 1:
		return "", ErrMultipleAddresses
	}

	addr := addresses[0]
	if addr.Text != "" {
		return addr.Text, nil
	}

	var parts []string
	appendNonEmpty := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	appendNonEmpty(strings.Join(addr.Line, ", "))
	appendNonEmpty(addr.City)
	appendNonEmpty(addr.District)
	appendNonEmpty(addr.State)
	appendNonEmpty(addr.PostalCode)
	appendNonEmpty(addr.Country)

	return strings.Join(parts, ", "), nil
}
