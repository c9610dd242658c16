package llmchat

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

const promptDateLayout = "Jan 2, 2006"

// BuildSystemPrompt renders the trip context the model plans against. Dates
// read "X to Y" when a range is selected and "not selected" otherwise.
func BuildSystemPrompt(state models.TripState) string {
	var b strings.Builder

	b.WriteString("You are JourneyGenie, an AI travel assistant helping a user plan a trip.\n")
	fmt.Fprintf(&b, "Budget: $%d.\n", state.Budget)

	switch len(state.SelectedDates) {
	case 0:
		b.WriteString("Travel dates: not selected.\n")
	case 1:
		fmt.Fprintf(&b, "Travel dates: %s.\n", state.SelectedDates[0].Format(promptDateLayout))
	default:
		first := state.SelectedDates[0]
		last := state.SelectedDates[len(state.SelectedDates)-1]
		fmt.Fprintf(&b, "Travel dates: %s to %s.\n",
			first.Format(promptDateLayout), last.Format(promptDateLayout))
	}

	if len(state.SelectedPreferences) > 0 {
		fmt.Fprintf(&b, "Preferences: %s.\n", strings.Join(state.SelectedPreferences, ", "))
	}
	if state.Destination != "" {
		fmt.Fprintf(&b, "Destination: %s.\n", state.Destination)
	}

	b.WriteString("Keep suggestions within the budget and the selected dates. ")
	b.WriteString("When proposing an itinerary, format each day as \"Day N:\" followed by one activity per line.")
	return b.String()
}
