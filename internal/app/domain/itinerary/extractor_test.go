package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []models.DayPlan
	}{
		{
			name:  "basic two-day plan",
			input: "Day 1: Visit museum\n- Eat lunch\nDay 2: Beach day",
			expected: []models.DayPlan{
				{Day: 1, Activities: []string{"Visit museum", "Eat lunch"}},
				{Day: 2, Activities: []string{"Beach day"}},
			},
		},
		{
			name:     "no day headers",
			input:    "Here are some general travel tips for your trip.",
			expected: nil,
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:  "dash delimiter",
			input: "Day 1 - Arrive and settle in\nDay 2 - Old town walking tour",
			expected: []models.DayPlan{
				{Day: 1, Activities: []string{"Arrive and settle in"}},
				{Day: 2, Activities: []string{"Old town walking tour"}},
			},
		},
		{
			name:  "out of order days are sorted ascending",
			input: "Day 3: Departure\nDay 1: Arrival\nDay 2: Sightseeing",
			expected: []models.DayPlan{
				{Day: 1, Activities: []string{"Arrival"}},
				{Day: 2, Activities: []string{"Sightseeing"}},
				{Day: 3, Activities: []string{"Departure"}},
			},
		},
		{
			name:  "duplicate day numbers are kept in source order",
			input: "Day 1: Morning market\nDay 1: Evening show",
			expected: []models.DayPlan{
				{Day: 1, Activities: []string{"Morning market"}},
				{Day: 1, Activities: []string{"Evening show"}},
			},
		},
		{
			name:  "markdown noise is stripped",
			input: "**Day 1:**\n- Visit the **Louvre**\n* Seine cruise\n**\nDay 2:\n• Climb Montmartre",
			expected: []models.DayPlan{
				{Day: 1, Activities: []string{"Visit the Louvre", "Seine cruise"}},
				{Day: 2, Activities: []string{"Climb Montmartre"}},
			},
		},
		{
			name:  "lowercase day is not a header",
			input: "day 1: this is prose\nDay 2: Beach day",
			expected: []models.DayPlan{
				{Day: 2, Activities: []string{"Beach day"}},
			},
		},
		{
			name:  "double digit days sort numerically",
			input: "Day 10: Fly home\nDay 2: Day trip to the coast",
			expected: []models.DayPlan{
				{Day: 2, Activities: []string{"Day trip to the coast"}},
				{Day: 10, Activities: []string{"Fly home"}},
			},
		},
		{
			name:  "blank lines inside a block are dropped",
			input: "Day 1:\n\n- Check out the harbor\n\n- Seafood dinner\n",
			expected: []models.DayPlan{
				{Day: 1, Activities: []string{"Check out the harbor", "Seafood dinner"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input, zap.NewNop())
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractNeverPanics(t *testing.T) {
	inputs := []string{
		"Day ",
		"Day 999999999999999999999999: overflow day",
		strings.Repeat("Day 1:", 10000),
		"Day 1:" + strings.Repeat("\n", 5000),
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			Extract(input, zap.NewNop())
		})
	}
}

func TestExtractOverflowDayIsDropped(t *testing.T) {
	got := Extract("Day 99999999999999999999: impossible\nDay 1: Arrival", zap.NewNop())
	assert.Equal(t, []models.DayPlan{{Day: 1, Activities: []string{"Arrival"}}}, got)
}

func TestExtractNilLogger(t *testing.T) {
	got := Extract("Day 1: Visit museum", nil)
	assert.Equal(t, []models.DayPlan{{Day: 1, Activities: []string{"Visit museum"}}}, got)
}
