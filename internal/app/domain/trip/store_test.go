package trip

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Load(ctx context.Context, userID uuid.UUID) (*models.TripState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripState), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, userID uuid.UUID, state *models.TripState) error {
	args := m.Called(ctx, userID, state)
	return args.Error(0)
}

func newTestStore() *Store {
	return NewStore(uuid.New(), DefaultState(), nil, zap.NewNop())
}

func date(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func TestDefaultState(t *testing.T) {
	state := DefaultState()
	assert.Equal(t, 1500, state.Budget)
	assert.Empty(t, state.SelectedDates)
	assert.Empty(t, state.ChatHistory)
	assert.Empty(t, state.CurrentChatID)
}

func TestSetBudget(t *testing.T) {
	store := newTestStore()
	store.SetBudget(context.Background(), 3000)
	assert.Equal(t, 3000, store.Snapshot().Budget)
}

func TestToggleDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	store.ToggleDate(ctx, date(24))
	store.ToggleDate(ctx, date(19))
	assert.Equal(t, []time.Time{date(19), date(24)}, store.Snapshot().SelectedDates, "selection stays sorted")

	// Same calendar day at a different hour toggles the existing entry off.
	store.ToggleDate(ctx, date(19).Add(14*time.Hour))
	assert.Equal(t, []time.Time{date(24)}, store.Snapshot().SelectedDates)
}

func TestTogglePreference(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	store.TogglePreference(ctx, "adventure")
	store.TogglePreference(ctx, "food")
	assert.Equal(t, []string{"adventure", "food"}, store.Snapshot().SelectedPreferences)

	store.TogglePreference(ctx, "adventure")
	assert.Equal(t, []string{"food"}, store.Snapshot().SelectedPreferences)
}

func TestStartNewChat(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.SetDestination(ctx, "Paris")
	store.SetItinerary(ctx, []models.DayPlan{{Day: 1, Activities: []string{"Louvre"}}})

	session := store.StartNewChat(ctx)

	state := store.Snapshot()
	assert.Equal(t, session.ID, state.CurrentChatID)
	assert.Equal(t, models.NewChatTitle, session.Title)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, models.AssistantGreeting, session.Messages[0].Content)
	assert.Equal(t, models.SenderAssistant, session.Messages[0].Sender)
	assert.Empty(t, state.Destination, "new chat clears the destination")
	assert.Empty(t, state.Itinerary, "new chat clears the itinerary")
}

func TestStartNewChatPrependsToHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first := store.StartNewChat(ctx)
	second := store.StartNewChat(ctx)

	history := store.Snapshot().ChatHistory
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID, "newest session first")
	assert.Equal(t, first.ID, history[1].ID)
}

func TestSetDestinationRetitlesPlaceholderOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.StartNewChat(ctx)

	store.SetDestination(ctx, "Tokyo")
	state := store.Snapshot()
	assert.Equal(t, "Trip to Tokyo", state.CurrentSession().Title)
	assert.Equal(t, "Tokyo", state.CurrentSession().Destination)

	// A second destination change must not clobber the derived title.
	store.SetDestination(ctx, "Kyoto")
	state = store.Snapshot()
	assert.Equal(t, "Trip to Tokyo", state.CurrentSession().Title)
	assert.Equal(t, "Kyoto", state.Destination)
	assert.Equal(t, "Kyoto", state.CurrentSession().Destination)
}

func TestSetDestinationWithoutActiveSession(t *testing.T) {
	store := newTestStore()
	store.SetDestination(context.Background(), "Lisbon")
	assert.Equal(t, "Lisbon", store.Snapshot().Destination)
}

func TestSetItinerarySortsAndKeepsDuplicates(t *testing.T) {
	store := newTestStore()
	store.SetItinerary(context.Background(), []models.DayPlan{
		{Day: 3, Activities: []string{"Departure"}},
		{Day: 1, Activities: []string{"Arrival"}},
		{Day: 1, Activities: []string{"Evening show"}},
	})

	itin := store.Snapshot().Itinerary
	require.Len(t, itin, 3)
	assert.Equal(t, []int{1, 1, 3}, []int{itin[0].Day, itin[1].Day, itin[2].Day})
	assert.Equal(t, []string{"Arrival"}, itin[0].Activities, "duplicate days keep source order")
	assert.Equal(t, []string{"Evening show"}, itin[1].Activities)
}

func TestAppendMessage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.StartNewChat(ctx)

	msg, err := store.AppendMessage(ctx, models.SenderUser, "I want to visit Paris")
	require.NoError(t, err)
	assert.Equal(t, 2, msg.ID, "ids continue after the greeting")

	reply, err := store.AppendMessage(ctx, models.SenderAssistant, "Great choice!")
	require.NoError(t, err)
	assert.Equal(t, 3, reply.ID)
}

func TestAppendMessageWithoutActiveSession(t *testing.T) {
	store := newTestStore()
	_, err := store.AppendMessage(context.Background(), models.SenderUser, "hello")
	assert.ErrorIs(t, err, models.ErrNoActiveSession)
}

func TestLoadChatSessionRestoresDestinationAndItinerary(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	saved := store.StartNewChat(ctx)
	store.SetDestination(ctx, "Paris")
	_, err := store.AppendMessage(ctx, models.SenderAssistant, "Day 1: Visit the Louvre\nDay 2: Montmartre")
	require.NoError(t, err)

	store.StartNewChat(ctx)
	assert.Empty(t, store.Snapshot().Destination)

	ok := store.LoadChatSession(ctx, saved.ID)
	assert.True(t, ok)

	state := store.Snapshot()
	assert.Equal(t, saved.ID, state.CurrentChatID)
	assert.Equal(t, "Paris", state.Destination)
	require.Len(t, state.Itinerary, 2)
	assert.Equal(t, []string{"Visit the Louvre"}, state.Itinerary[0].Activities)
}

func TestLoadChatSessionPrefersNewestItineraryMessage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	saved := store.StartNewChat(ctx)
	_, err := store.AppendMessage(ctx, models.SenderAssistant, "Day 1: Old plan")
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, models.SenderAssistant, "Day 1: Revised plan")
	require.NoError(t, err)

	store.StartNewChat(ctx)
	store.LoadChatSession(ctx, saved.ID)

	itin := store.Snapshot().Itinerary
	require.Len(t, itin, 1)
	assert.Equal(t, []string{"Revised plan"}, itin[0].Activities)
}

func TestLoadChatSessionIgnoresUserDayMentions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	saved := store.StartNewChat(ctx)
	_, err := store.AppendMessage(ctx, models.SenderAssistant, "Day 1: Visit museum")
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, models.SenderUser, "Day 5 sounds wrong to me")
	require.NoError(t, err)

	store.StartNewChat(ctx)
	store.LoadChatSession(ctx, saved.ID)

	itin := store.Snapshot().Itinerary
	require.Len(t, itin, 1)
	assert.Equal(t, 1, itin[0].Day)
}

func TestLoadChatSessionUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.StartNewChat(ctx)
	store.SetDestination(ctx, "Rome")
	before := store.Snapshot()

	ok := store.LoadChatSession(ctx, "no-such-session")
	assert.False(t, ok)
	assert.Equal(t, before, store.Snapshot())
}

func TestDeleteChatSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first := store.StartNewChat(ctx)
	second := store.StartNewChat(ctx)

	store.DeleteChatSession(ctx, first.ID)

	state := store.Snapshot()
	require.Len(t, state.ChatHistory, 1)
	assert.Equal(t, second.ID, state.CurrentChatID, "deleting an inactive session keeps the active one")
}

func TestDeleteActiveChatSessionStartsFreshOne(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	active := store.StartNewChat(ctx)
	store.DeleteChatSession(ctx, active.ID)

	state := store.Snapshot()
	require.Len(t, state.ChatHistory, 1)
	assert.NotEqual(t, active.ID, state.CurrentChatID)
	assert.NotEmpty(t, state.CurrentChatID, "there is always a current chat after deleting the active one")
}

func TestDeleteChatSessionUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.StartNewChat(ctx)
	before := store.Snapshot()

	store.DeleteChatSession(ctx, "no-such-session")
	assert.Equal(t, before, store.Snapshot())
}

func TestReplaceMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	err := store.ReplaceMessages(ctx, []models.ChatMessage{{ID: 1, Content: "hi", Sender: models.SenderUser}})
	assert.ErrorIs(t, err, models.ErrNoActiveSession)

	store.StartNewChat(ctx)
	replacement := []models.ChatMessage{
		{ID: 1, Content: "hello", Sender: models.SenderAssistant},
		{ID: 2, Content: "plan something", Sender: models.SenderUser},
	}
	require.NoError(t, store.ReplaceMessages(ctx, replacement))

	snapshot := store.Snapshot()
	session := snapshot.CurrentSession()
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "plan something", session.Messages[1].Content)

	// replacing again after the fact must not alias the caller's slice
	replacement[0].Content = "mutated"
	after := store.Snapshot()
	assert.Equal(t, "hello", after.CurrentSession().Messages[0].Content)
}

func TestMutationsWriteThrough(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockRepo := new(MockRepository)
	mockRepo.On("Save", mock.Anything, userID, mock.Anything).Return(nil)

	store := NewStore(userID, DefaultState(), mockRepo, zap.NewNop())
	store.SetBudget(ctx, 2000)
	store.TogglePreference(ctx, "culture")

	mockRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockRepo := new(MockRepository)
	mockRepo.On("Save", mock.Anything, userID, mock.Anything).Return(assert.AnError)

	store := NewStore(userID, DefaultState(), mockRepo, zap.NewNop())
	store.SetBudget(ctx, 2000)

	assert.Equal(t, 2000, store.Snapshot().Budget)
}

func TestSnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	store.SetItinerary(ctx, []models.DayPlan{{Day: 1, Activities: []string{"Arrival"}}})

	snapshot := store.Snapshot()
	snapshot.Itinerary[0].Activities[0] = "mutated"
	snapshot.Budget = 9

	fresh := store.Snapshot()
	assert.Equal(t, "Arrival", fresh.Itinerary[0].Activities[0])
	assert.Equal(t, 1500, fresh.Budget)
}

func TestManagerLoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	persisted := &models.TripState{Budget: 4200, Destination: "Osaka"}

	mockRepo := new(MockRepository)
	mockRepo.On("Load", mock.Anything, userID).Return(persisted, nil).Once()

	manager := NewManager(mockRepo, zap.NewNop())
	store, err := manager.ForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4200, store.Snapshot().Budget)

	// Second lookup reuses the cached store without touching the repository.
	again, err := manager.ForUser(ctx, userID)
	require.NoError(t, err)
	assert.Same(t, store, again)
	mockRepo.AssertExpectations(t)
}

func TestManagerFallsBackToDefaultsOnCorruptState(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockRepository)
	mockRepo.On("Load", mock.Anything, userID).Return(nil, assert.AnError).Once()

	manager := NewManager(mockRepo, zap.NewNop())
	store, err := manager.ForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBudget, store.Snapshot().Budget)
}
