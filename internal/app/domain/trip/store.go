// Package trip owns the per-user planning state: the single source of truth
// for budget, dates, preferences, destination, itinerary, and chat sessions.
package trip

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/domain/itinerary"
	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// StorageKey is the fixed key every serialized trip-state record lives under.
const StorageKey = "journeygenie.tripState"

// Repository persists one serialized trip state per user.
type Repository interface {
	Load(ctx context.Context, userID uuid.UUID) (*models.TripState, error)
	Save(ctx context.Context, userID uuid.UUID, state *models.TripState) error
}

// Store serializes all access to one user's trip state. Every mutation runs
// under the store lock and writes through to the repository; a failed write
// is logged and the in-memory state stays authoritative.
type Store struct {
	mu     sync.Mutex
	userID uuid.UUID
	state  models.TripState
	repo   Repository
	logger *zap.Logger
}

// NewStore wraps an already-loaded state for one user.
func NewStore(userID uuid.UUID, state models.TripState, repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		userID: userID,
		state:  state,
		repo:   repo,
		logger: logger.With(zap.String("component", "trip"), zap.String("user_id", userID.String())),
	}
}

// DefaultState is what a user starts with before any interaction.
func DefaultState() models.TripState {
	return models.TripState{Budget: models.DefaultBudget}
}

// Snapshot returns a deep copy of the current state, safe to read without
// holding the store lock.
func (s *Store) Snapshot() models.TripState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// SetBudget replaces the trip budget.
func (s *Store) SetBudget(ctx context.Context, budget int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Budget = budget
	s.persist(ctx)
}

// ToggleDate adds the date if it is not selected, removes it if it is.
// Membership is by calendar day; the selection stays sorted ascending.
func (s *Store) ToggleDate(ctx context.Context, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, selected := range s.state.SelectedDates {
		if models.SameCalendarDay(selected, date) {
			s.state.SelectedDates = append(s.state.SelectedDates[:i], s.state.SelectedDates[i+1:]...)
			s.persist(ctx)
			return
		}
	}

	s.state.SelectedDates = append(s.state.SelectedDates, date)
	sort.Slice(s.state.SelectedDates, func(i, j int) bool {
		return s.state.SelectedDates[i].Before(s.state.SelectedDates[j])
	})
	s.persist(ctx)
}

// SetSelectedDates replaces the whole date selection, kept sorted ascending.
func (s *Store) SetSelectedDates(ctx context.Context, dates []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SelectedDates = append([]time.Time(nil), dates...)
	sort.Slice(s.state.SelectedDates, func(i, j int) bool {
		return s.state.SelectedDates[i].Before(s.state.SelectedDates[j])
	})
	s.persist(ctx)
}

// TogglePreference adds or removes a preference tag.
func (s *Store) TogglePreference(ctx context.Context, preference string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, selected := range s.state.SelectedPreferences {
		if selected == preference {
			s.state.SelectedPreferences = append(s.state.SelectedPreferences[:i], s.state.SelectedPreferences[i+1:]...)
			s.persist(ctx)
			return
		}
	}
	s.state.SelectedPreferences = append(s.state.SelectedPreferences, preference)
	s.persist(ctx)
}

// SetDestination records the destination and mirrors it onto the active
// session. While the active session still carries the placeholder title it is
// retitled "Trip to {destination}"; a title set any other way is preserved.
func (s *Store) SetDestination(ctx context.Context, destination string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Destination = destination
	if session := s.state.CurrentSession(); session != nil {
		session.Destination = destination
		if session.Title == models.NewChatTitle && destination != "" {
			session.Title = "Trip to " + destination
		}
	}
	s.persist(ctx)
}

// SetItinerary replaces the current itinerary, sorted ascending by day.
// Duplicate day numbers are kept as-is.
func (s *Store) SetItinerary(ctx context.Context, plans []models.DayPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cloned := make([]models.DayPlan, len(plans))
	for i, plan := range plans {
		cloned[i] = models.DayPlan{Day: plan.Day, Activities: append([]string(nil), plan.Activities...)}
	}
	models.SortDayPlans(cloned)
	s.state.Itinerary = cloned
	s.persist(ctx)
}

// StartNewChat creates a session seeded with the assistant greeting, makes it
// active, and clears the per-trip destination and itinerary.
func (s *Store) StartNewChat(ctx context.Context) models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startNewChatLocked(ctx)
}

func (s *Store) startNewChatLocked(ctx context.Context) models.ChatSession {
	session := models.ChatSession{
		ID:    uuid.NewString(),
		Title: models.NewChatTitle,
		Messages: []models.ChatMessage{
			{ID: 1, Content: models.AssistantGreeting, Sender: models.SenderAssistant},
		},
		CreatedAt: time.Now().UTC(),
	}

	s.state.ChatHistory = append([]models.ChatSession{session}, s.state.ChatHistory...)
	s.state.CurrentChatID = session.ID
	s.state.Destination = ""
	s.state.Itinerary = nil
	s.persist(ctx)

	s.logger.Info("Started new chat session", zap.String("session_id", session.ID))
	return cloneSession(session)
}

// LoadChatSession activates a saved session and restores its destination.
// It then scans the transcript newest to oldest for the first assistant
// message mentioning "Day" and, when extraction yields day plans, installs
// them as the current itinerary. An unknown id is a silent no-op; the report
// value says whether the session was found.
func (s *Store) LoadChatSession(ctx context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.state.SessionByID(sessionID)
	if session == nil {
		s.logger.Debug("Ignoring load of unknown chat session", zap.String("session_id", sessionID))
		return false
	}

	s.state.CurrentChatID = session.ID
	s.state.Destination = session.Destination

	for i := len(session.Messages) - 1; i >= 0; i-- {
		msg := session.Messages[i]
		if msg.Sender != models.SenderAssistant || !strings.Contains(msg.Content, "Day") {
			continue
		}
		if plans := itinerary.Extract(msg.Content, s.logger); len(plans) > 0 {
			s.state.Itinerary = plans
		}
		break
	}

	s.persist(ctx)
	return true
}

// DeleteChatSession removes a session from history. Deleting the active
// session immediately starts a fresh one so there is always a current chat.
// An unknown id is a silent no-op.
func (s *Store) DeleteChatSession(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.state.ChatHistory {
		if s.state.ChatHistory[i].ID == sessionID {
			index = i
			break
		}
	}
	if index < 0 {
		return
	}

	wasActive := s.state.CurrentChatID == sessionID
	s.state.ChatHistory = append(s.state.ChatHistory[:index], s.state.ChatHistory[index+1:]...)

	if wasActive {
		s.startNewChatLocked(ctx)
		return
	}
	s.persist(ctx)
}

// AppendMessage appends one message to the active session, assigning the
// next monotonic id. It returns models.ErrNoActiveSession when no session is
// active.
func (s *Store) AppendMessage(ctx context.Context, sender models.Sender, content string) (models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.state.CurrentSession()
	if session == nil {
		return models.ChatMessage{}, models.ErrNoActiveSession
	}

	msg := models.ChatMessage{
		ID:      nextMessageID(session.Messages),
		Content: content,
		Sender:  sender,
	}
	session.Messages = append(session.Messages, msg)
	s.persist(ctx)
	return msg, nil
}

// ReplaceMessages swaps the active session's transcript wholesale.
func (s *Store) ReplaceMessages(ctx context.Context, messages []models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.state.CurrentSession()
	if session == nil {
		return models.ErrNoActiveSession
	}
	session.Messages = append([]models.ChatMessage(nil), messages...)
	s.persist(ctx)
	return nil
}

func nextMessageID(messages []models.ChatMessage) int {
	next := 1
	for _, msg := range messages {
		if msg.ID >= next {
			next = msg.ID + 1
		}
	}
	return next
}

// persist writes the state through to storage. Callers hold the lock.
// Persistence failure never fails the operation; memory stays authoritative
// and the next successful write catches storage up.
func (s *Store) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}
	snapshot := cloneState(s.state)
	if err := s.repo.Save(ctx, s.userID, &snapshot); err != nil {
		s.logger.Error("Failed to persist trip state", zap.Error(err))
	}
}

func cloneState(state models.TripState) models.TripState {
	cloned := state
	cloned.SelectedDates = append([]time.Time(nil), state.SelectedDates...)
	cloned.SelectedPreferences = append([]string(nil), state.SelectedPreferences...)
	cloned.Itinerary = make([]models.DayPlan, len(state.Itinerary))
	for i, plan := range state.Itinerary {
		cloned.Itinerary[i] = models.DayPlan{Day: plan.Day, Activities: append([]string(nil), plan.Activities...)}
	}
	cloned.ChatHistory = make([]models.ChatSession, len(state.ChatHistory))
	for i, session := range state.ChatHistory {
		cloned.ChatHistory[i] = cloneSession(session)
	}
	return cloned
}

func cloneSession(session models.ChatSession) models.ChatSession {
	cloned := session
	cloned.Messages = append([]models.ChatMessage(nil), session.Messages...)
	return cloned
}
