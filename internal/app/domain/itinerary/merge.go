package itinerary

import (
	"fmt"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// accommodationMatcher spots day lines that already mention lodging so a
// hotel merge does not stack a second check-in onto them.
var accommodationMatcher = func() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	return builder.Build([]string{"hotel", "stay", "check-in", "check-out", "hostel", "accommodation"})
}()

func mentionsAccommodation(activities []string) bool {
	for _, activity := range activities {
		if len(accommodationMatcher.FindAll(activity)) > 0 {
			return true
		}
	}
	return false
}

func findDay(plans []models.DayPlan, day int) int {
	for i := range plans {
		if plans[i].Day == day {
			return i
		}
	}
	return -1
}

// MergeFlight folds a selected flight into the itinerary: the outbound leg
// becomes the first activity of day 1 and, for multi-day trips, the return
// leg is appended to the last day. Missing days are created. The result is
// re-sorted ascending.
func MergeFlight(plans []models.DayPlan, flight models.FlightResult, origin, originCode, destination, destinationCode string, tripDays int) []models.DayPlan {
	if tripDays < 1 {
		tripDays = 1
	}

	outbound := fmt.Sprintf("Flight from %s (%s) to %s (%s) with %s. Departure: %s, Arrival: %s. %s",
		origin, originCode, destination, destinationCode,
		flight.Airline, flight.DepartureTime, flight.ArrivalTime, flight.Price)
	returnLeg := fmt.Sprintf("Return flight from %s (%s) to %s (%s) with %s. Price: %s",
		destination, destinationCode, origin, originCode,
		flight.Airline, flight.Price)

	merged := clonePlans(plans)

	if i := findDay(merged, 1); i >= 0 {
		merged[i].Activities = append([]string{outbound}, merged[i].Activities...)
	} else {
		merged = append(merged, models.DayPlan{Day: 1, Activities: []string{outbound}})
	}

	if tripDays > 1 {
		if i := findDay(merged, tripDays); i >= 0 {
			merged[i].Activities = append(merged[i].Activities, returnLeg)
		} else {
			merged = append(merged, models.DayPlan{Day: tripDays, Activities: []string{returnLeg}})
		}
	}

	models.SortDayPlans(merged)
	return merged
}

// MergeHotel folds a selected hotel into the itinerary: check-in lands on
// day 1 and check-out on the last day, skipping days that already mention
// lodging. When the itinerary is empty the full stay window is scaffolded.
func MergeHotel(plans []models.DayPlan, hotel models.HotelResult, tripDays int) []models.DayPlan {
	if tripDays < 1 {
		tripDays = 1
	}

	checkIn := fmt.Sprintf("Check-in at %s. %s per night, rated %.1f", hotel.Name, hotel.Price, hotel.Rating)
	checkOut := fmt.Sprintf("Check-out from %s", hotel.Name)

	if len(plans) == 0 {
		scaffold := make([]models.DayPlan, 0, tripDays)
		for day := 1; day <= tripDays; day++ {
			plan := models.DayPlan{Day: day, Activities: []string{}}
			if day == 1 {
				plan.Activities = append(plan.Activities, checkIn)
			}
			if day == tripDays && tripDays > 1 {
				plan.Activities = append(plan.Activities, checkOut)
			}
			scaffold = append(scaffold, plan)
		}
		return scaffold
	}

	merged := clonePlans(plans)
	added := false

	for i := range merged {
		if mentionsAccommodation(merged[i].Activities) {
			continue
		}
		if merged[i].Day == 1 {
			merged[i].Activities = append(merged[i].Activities, checkIn)
			added = true
		}
		if merged[i].Day == tripDays && tripDays > 1 {
			merged[i].Activities = append(merged[i].Activities, checkOut)
			added = true
		}
	}

	if !added {
		stay := fmt.Sprintf("Stay at %s. %s per night", hotel.Name, hotel.Price)
		if i := findDay(merged, 1); i >= 0 {
			merged[i].Activities = append(merged[i].Activities, stay)
		} else {
			merged = append(merged, models.DayPlan{Day: 1, Activities: []string{stay}})
		}
	}

	models.SortDayPlans(merged)
	return merged
}

func clonePlans(plans []models.DayPlan) []models.DayPlan {
	cloned := make([]models.DayPlan, len(plans))
	for i, plan := range plans {
		cloned[i] = models.DayPlan{
			Day:        plan.Day,
			Activities: append([]string(nil), plan.Activities...),
		}
	}
	return cloned
}
