package advisory

import (
	"fmt"
	"strings"
	"time"
)

const promptDivider = "-------------------------------"

// BuildPrompt renders the fixed consultation template. It is pure: identical
// inputs always produce byte-identical output, so the prompt can be logged,
// diffed, and replayed against the generative service.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString(promptDivider + "\n")
	b.WriteString("Prompt Context\n\n")
	b.WriteString("You have been approached by a healthcare professional seeking consultation on how to mitigate the health risks or treat the health complications associated with climate-related events, such as heat waves or forest fires. Your role as the AI specialist is to provide a consultation based on the specific characteristics and surrounding environment of the patient, like their demographics, health conditions, medications, and air quality index.\n")
	b.WriteString(promptDivider + "\n")
	b.WriteString("Patient Details\n\n")
	fmt.Fprintf(&b, "Sex: %s\n", in.Sex)
	fmt.Fprintf(&b, "Date of Birth: %s\n", in.BirthDate)
	fmt.Fprintf(&b, "Health Conditions: %s\n", in.Conditions)
	fmt.Fprintf(&b, "Medication Administrations: %s\n", in.Medications)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Here is the past, present, and forecasted environmental data (in a tabular format) for the patient's primary address. Its columns are time and air quality index. Right now, the current datetime is %s.\n\n", in.Now.UTC().Format(time.RFC3339))

	if in.Readings != nil {
		for _, r := range in.Readings.Sorted() {
			fmt.Fprintf(&b, "%s %d\n", r.Time.UTC().Format(time.RFC3339), r.AQI)
		}
	}

	b.WriteString(promptDivider + "\n")

	return b.String()
}
