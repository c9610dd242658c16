// Package itinerary turns assistant prose into structured day plans and
// merges booked travel options into them.
package itinerary

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// dayHeader starts a day block: the literal word "Day" (case-sensitive),
// whitespace, a day number, and a colon, dash, or whitespace delimiter.
var dayHeader = regexp.MustCompile(`Day\s+(\d+)\s*[:\-\s]`)

// bulletPrefix strips leading list markers from activity lines.
var bulletPrefix = regexp.MustCompile(`^[•*\-]+\s+`)

// nestedHeader matches lines that are themselves day headers (possibly
// bold-wrapped) left inside a block's body.
var nestedHeader = regexp.MustCompile(`^\**\s*Day\s+\d+`)

// Extract parses free-form assistant text into day plans. Text between one
// day header and the next (or end of input) becomes that day's activities.
// Blocks whose day number does not parse are dropped. The result is sorted
// ascending by day; duplicate day numbers survive as separate entries.
// Unusable input yields nil, never an error and never a panic.
func Extract(text string, logger *zap.Logger) (plans []models.DayPlan) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Itinerary extraction panicked on malformed input", zap.Any("cause", r))
			plans = nil
		}
	}()

	matches := dayHeader.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	for i, loc := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		dayNumber, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			logger.Debug("Dropping day block with unparsable number",
				zap.String("raw", text[loc[2]:loc[3]]),
			)
			continue
		}

		plans = append(plans, models.DayPlan{
			Day:        dayNumber,
			Activities: cleanActivities(text[loc[1]:end]),
		})
	}

	if len(plans) == 0 {
		return nil
	}
	models.SortDayPlans(plans)
	return plans
}

// cleanActivities splits a block body into activity lines, dropping noise the
// model tends to emit around markdown lists.
func cleanActivities(body string) []string {
	activities := make([]string, 0, 4)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if nestedHeader.MatchString(line) {
			continue
		}
		// Pure decoration: bold markers or a lone list glyph.
		if strings.Trim(line, "*-•—") == "" {
			continue
		}

		line = bulletPrefix.ReplaceAllString(line, "")
		line = strings.ReplaceAll(line, "**", "")
		line = strings.TrimSpace(line)
		if line != "" {
			activities = append(activities, line)
		}
	}
	return activities
}
