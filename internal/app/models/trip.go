package models

import (
	"sort"
	"time"
)

// Sender identifies the author of a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// DefaultBudget is the budget a fresh trip state starts with.
const DefaultBudget = 1500

// NewChatTitle is the placeholder title a freshly created session carries.
// SetDestination only retitles a session while its title still equals this
// sentinel, so a user-renamed or destination-derived title is never clobbered.
const NewChatTitle = "New Chat"

// AssistantGreeting seeds every new chat session with one assistant message.
const AssistantGreeting = "Hello! How can I assist you with your travel plans?"

// DayPlan is one day's ordered list of activity descriptions within an
// itinerary. Day numbers are positive and kept sorted ascending, but nothing
// deduplicates colliding day numbers.
type DayPlan struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

// SortDayPlans orders plans ascending by day number. The sort is stable so
// duplicate day numbers keep their relative source order.
func SortDayPlans(plans []DayPlan) {
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Day < plans[j].Day })
}

// ChatMessage is one turn in a chat session. IDs are monotonic within a
// session; messages are immutable once appended.
type ChatMessage struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Sender  Sender `json:"sender"`
}

// ChatSession is one saved conversation thread.
type ChatSession struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Messages    []ChatMessage `json:"messages"`
	Destination string        `json:"destination,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// TripState is the aggregate of everything the planner knows about one user's
// trip. It is the single source of truth every view reads from; all mutation
// goes through the trip store's operations.
type TripState struct {
	Budget              int           `json:"budget"`
	SelectedDates       []time.Time   `json:"selectedDates"`
	SelectedPreferences []string      `json:"selectedPreferences"`
	Destination         string        `json:"destination"`
	Itinerary           []DayPlan     `json:"itinerary"`
	ChatHistory         []ChatSession `json:"chatHistory"`
	CurrentChatID       string        `json:"currentChatId,omitempty"`
}

// CurrentSession returns the active chat session, or nil when CurrentChatID
// does not resolve. The reference is weak: lookup by id, never ownership.
func (s *TripState) CurrentSession() *ChatSession {
	if s.CurrentChatID == "" {
		return nil
	}
	return s.SessionByID(s.CurrentChatID)
}

// SessionByID returns the session with the given id, or nil.
func (s *TripState) SessionByID(id string) *ChatSession {
	for i := range s.ChatHistory {
		if s.ChatHistory[i].ID == id {
			return &s.ChatHistory[i]
		}
	}
	return nil
}

// SameCalendarDay reports whether two timestamps fall on the same calendar day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
