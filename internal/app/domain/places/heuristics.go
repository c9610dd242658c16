// Package places extracts origin/destination phrases from chat text and
// resolves place names to coordinates.
package places

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Indicator phrases are scanned in priority order; the first one present in
// the message wins. More specific phrases sit before the generic "to "/"in "
// so "traveling to Paris" does not match on the bare "to ".
var destinationIndicators = []string{
	"going to ",
	"travel to ",
	"traveling to ",
	"travelling to ",
	"trip to ",
	"fly to ",
	"flying to ",
	"visit ",
	"to ",
	"in ",
}

var originIndicators = []string{
	"leaving from ",
	"departing from ",
	"starting from ",
	"flying from ",
	"traveling from ",
	"travelling from ",
	"from ",
	"i live in ",
	"i am in ",
	"i'm in ",
	"my city is ",
	"my location is ",
}

// candidateEnd terminates a place phrase: sentence punctuation or a
// following " to " clause.
var candidateEnd = regexp.MustCompile(`[.,;!?]|\sto\s`)

const (
	minPlaceLen = 2
	maxPlaceLen = 50
)

var titleCaser = cases.Title(language.English)

// ExtractDestination scans a chat message for a destination phrase. The
// boolean reports whether a plausible place name was found.
func ExtractDestination(message string) (string, bool) {
	return extractPlace(message, destinationIndicators)
}

// ExtractOrigin scans a chat message for a departure-place phrase.
func ExtractOrigin(message string) (string, bool) {
	return extractPlace(message, originIndicators)
}

// extractPlace finds the first indicator present in the message and takes
// the text after it up to punctuation or a " to " clause, falling back to
// the first two words. Candidates outside the length bounds are rejected
// rather than retried with later indicators; a heuristic that keeps digging
// produces junk more often than it recovers a real place name.
//
// The scan, the slicing, and the title-casing all run on the lowered copy.
// Lowercasing can change a rune's UTF-8 width, so indices found in the
// lowered string must never be applied to the original.
func extractPlace(message string, indicators []string) (string, bool) {
	lower := strings.ToLower(message)

	for _, indicator := range indicators {
		idx := strings.Index(lower, indicator)
		if idx < 0 {
			continue
		}

		after := lower[idx+len(indicator):]
		var candidate string
		if end := candidateEnd.FindStringIndex(after); end != nil {
			candidate = after[:end[0]]
		} else {
			words := strings.Fields(after)
			if len(words) > 2 {
				words = words[:2]
			}
			candidate = strings.Join(words, " ")
		}

		candidate = strings.TrimSpace(candidate)
		if len(candidate) < minPlaceLen || len(candidate) >= maxPlaceLen {
			return "", false
		}
		return titleCaser.String(candidate), true
	}

	return "", false
}
