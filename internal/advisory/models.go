// Package advisory builds the patient risk prompt and obtains a
// generated advisory text for it.
package advisory

import (
	"context"
	"time"

	"github.com/smokespecialist/smokespecialist/internal/airquality"
	"github.com/smokespecialist/smokespecialist/internal/patient"
)

// PromptInput carries everything the prompt template embeds. All fields are
// read-only once assembled.
type PromptInput struct {
	// Sex is the patient's administrative sex.
	Sex patient.Sex

	// BirthDate is the patient's birth date, or "Unknown".
	BirthDate string

	// Conditions is the comma-joined active condition names.
	Conditions string

	// Medications is the comma-joined administered medication names.
	Medications string

	// Now is the reference instant the readings are anchored to.
	Now time.Time

	// Readings is the merged environmental series.
	Readings *airquality.Series
}

// Generator produces free-form advisory text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
