package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

var testFlight = models.FlightResult{
	Airline:       "Delta",
	Price:         "$450",
	Duration:      "7h 30m",
	Stops:         0,
	DepartureTime: "2024-06-19 08:00",
	ArrivalTime:   "2024-06-19 15:30",
}

var testHotel = models.HotelResult{
	Name:   "Grand Plaza",
	Price:  "$120",
	Rating: 4.5,
}

func TestMergeFlightIntoEmptyItinerary(t *testing.T) {
	merged := MergeFlight(nil, testFlight, "New York", "JFK", "Paris", "CDG", 3)

	assert.Len(t, merged, 2)
	assert.Equal(t, 1, merged[0].Day)
	assert.Contains(t, merged[0].Activities[0], "Flight from New York (JFK) to Paris (CDG) with Delta")
	assert.Equal(t, 3, merged[1].Day)
	assert.Contains(t, merged[1].Activities[0], "Return flight from Paris (CDG) to New York (JFK)")
}

func TestMergeFlightPrependsOutbound(t *testing.T) {
	plans := []models.DayPlan{
		{Day: 1, Activities: []string{"Visit museum"}},
		{Day: 3, Activities: []string{"Pack up"}},
	}

	merged := MergeFlight(plans, testFlight, "New York", "JFK", "Paris", "CDG", 3)

	assert.Contains(t, merged[0].Activities[0], "Flight from New York")
	assert.Equal(t, "Visit museum", merged[0].Activities[1])
	assert.Equal(t, []string{"Visit museum"}, plans[0].Activities, "input must not be mutated")

	last := merged[len(merged)-1]
	assert.Equal(t, 3, last.Day)
	assert.Contains(t, last.Activities[len(last.Activities)-1], "Return flight")
}

func TestMergeFlightSingleDayTripHasNoReturn(t *testing.T) {
	merged := MergeFlight(nil, testFlight, "New York", "JFK", "Paris", "CDG", 1)

	assert.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].Day)
	for _, activity := range merged[0].Activities {
		assert.NotContains(t, activity, "Return flight")
	}
}

func TestMergeFlightKeepsAscendingOrder(t *testing.T) {
	plans := []models.DayPlan{
		{Day: 2, Activities: []string{"Sightseeing"}},
	}

	merged := MergeFlight(plans, testFlight, "New York", "JFK", "Paris", "CDG", 4)

	days := make([]int, 0, len(merged))
	for _, plan := range merged {
		days = append(days, plan.Day)
	}
	assert.Equal(t, []int{1, 2, 4}, days)
}

func TestMergeHotelScaffoldsEmptyItinerary(t *testing.T) {
	merged := MergeHotel(nil, testHotel, 3)

	assert.Len(t, merged, 3)
	assert.Contains(t, merged[0].Activities[0], "Check-in at Grand Plaza")
	assert.Empty(t, merged[1].Activities)
	assert.Contains(t, merged[2].Activities[0], "Check-out from Grand Plaza")
}

func TestMergeHotelAppendsToExistingDays(t *testing.T) {
	plans := []models.DayPlan{
		{Day: 1, Activities: []string{"Visit museum"}},
		{Day: 2, Activities: []string{"Beach day"}},
		{Day: 3, Activities: []string{"Departure"}},
	}

	merged := MergeHotel(plans, testHotel, 3)

	assert.Contains(t, merged[0].Activities[1], "Check-in at Grand Plaza")
	assert.Equal(t, []string{"Beach day"}, merged[1].Activities)
	assert.Contains(t, merged[2].Activities[1], "Check-out from Grand Plaza")
}

func TestMergeHotelSkipsDaysAlreadyMentioningLodging(t *testing.T) {
	plans := []models.DayPlan{
		{Day: 1, Activities: []string{"Check-in at the Ritz"}},
		{Day: 2, Activities: []string{"Hotel breakfast then hiking"}},
	}

	merged := MergeHotel(plans, testHotel, 2)

	assert.Equal(t, []string{"Check-in at the Ritz"}, merged[0].Activities)
	assert.Equal(t, []string{"Hotel breakfast then hiking"}, merged[1].Activities)
}

func TestMergeHotelFallsBackToStayLine(t *testing.T) {
	// Days 1 and 2 both mention lodging already, so neither check-in nor
	// check-out lands. The merge still has to record the selection somewhere.
	plans := []models.DayPlan{
		{Day: 1, Activities: []string{"Overnight stay on the sleeper train"}},
		{Day: 2, Activities: []string{"Check-out and fly home"}},
	}

	merged := MergeHotel(plans, testHotel, 2)

	assert.Contains(t, merged[0].Activities[len(merged[0].Activities)-1], "Stay at Grand Plaza")
}

func TestMentionsAccommodation(t *testing.T) {
	assert.True(t, mentionsAccommodation([]string{"Check-In at noon"}))
	assert.True(t, mentionsAccommodation([]string{"Relax at the HOTEL pool"}))
	assert.True(t, mentionsAccommodation([]string{"Stay near the old town"}))
	assert.False(t, mentionsAccommodation([]string{"Visit museum", "Eat lunch"}))
	assert.False(t, mentionsAccommodation(nil))
}
