package trip

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

func TestRepositoryLoad(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	state := models.TripState{Budget: 2500, Destination: "Paris"}
	payload, err := json.Marshal(state)
	require.NoError(t, err)

	mockPool.ExpectQuery(`SELECT payload FROM trip_states`).
		WithArgs(userID, StorageKey).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	repo := NewRepository(mockPool, zap.NewNop())
	loaded, err := repo.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2500, loaded.Budget)
	assert.Equal(t, "Paris", loaded.Destination)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryRoundTripsChatHistory(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	createdAt := time.Date(2026, 8, 29, 10, 15, 42, 0, time.UTC)
	state := &models.TripState{
		Budget:        3000,
		Destination:   "Kyoto",
		CurrentChatID: "session-2",
		ChatHistory: []models.ChatSession{
			{
				ID:          "session-2",
				Title:       "Trip to Kyoto",
				Destination: "Kyoto",
				CreatedAt:   createdAt,
				Messages: []models.ChatMessage{
					{ID: 1, Content: models.AssistantGreeting, Sender: models.SenderAssistant},
					{ID: 2, Content: "plan three days", Sender: models.SenderUser},
				},
			},
			{
				ID:        "session-1",
				Title:     "New Chat",
				CreatedAt: createdAt.Add(-24 * time.Hour),
				Messages: []models.ChatMessage{
					{ID: 1, Content: models.AssistantGreeting, Sender: models.SenderAssistant},
				},
			},
		},
		Itinerary: []models.DayPlan{{Day: 1, Activities: []string{"Arrive"}}},
	}
	payload, err := json.Marshal(state)
	require.NoError(t, err)

	mockPool.ExpectExec(`INSERT INTO trip_states`).
		WithArgs(userID, StorageKey, payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectQuery(`SELECT payload FROM trip_states`).
		WithArgs(userID, StorageKey).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	repo := NewRepository(mockPool, zap.NewNop())
	require.NoError(t, repo.Save(context.Background(), userID, state))

	loaded, err := repo.Load(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, loaded.ChatHistory, 2)
	assert.Equal(t, state.ChatHistory, loaded.ChatHistory)
	assert.Equal(t, "session-2", loaded.CurrentChatID)
	assert.True(t, createdAt.Equal(loaded.ChatHistory[0].CreatedAt))
	assert.Equal(t, state.Itinerary, loaded.Itinerary)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryLoadNotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	mockPool.ExpectQuery(`SELECT payload FROM trip_states`).
		WithArgs(userID, StorageKey).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}))

	repo := NewRepository(mockPool, zap.NewNop())
	_, err = repo.Load(context.Background(), userID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRepositoryLoadCorruptPayload(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	mockPool.ExpectQuery(`SELECT payload FROM trip_states`).
		WithArgs(userID, StorageKey).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow([]byte("{not json")))

	repo := NewRepository(mockPool, zap.NewNop())
	_, err = repo.Load(context.Background(), userID)
	assert.Error(t, err)
}

func TestRepositorySave(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	state := &models.TripState{Budget: 1500}
	payload, err := json.Marshal(state)
	require.NoError(t, err)

	mockPool.ExpectExec(`INSERT INTO trip_states`).
		WithArgs(userID, StorageKey, payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepository(mockPool, zap.NewNop())
	require.NoError(t, repo.Save(context.Background(), userID, state))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
