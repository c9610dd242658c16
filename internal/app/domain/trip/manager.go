package trip

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// Manager hands out one Store per user, loading persisted state on first
// access. Stores are cached for the process lifetime so concurrent requests
// for the same user share one lock.
type Manager struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Store
	repo   Repository
	logger *zap.Logger
}

// NewManager creates a store manager backed by the given repository.
func NewManager(repo Repository, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		stores: make(map[uuid.UUID]*Store),
		repo:   repo,
		logger: logger,
	}
}

// ForUser returns the user's store, loading persisted state on first use.
// A missing or unreadable record yields a fresh default state; corruption is
// logged, never surfaced to the user.
func (m *Manager) ForUser(ctx context.Context, userID uuid.UUID) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[userID]; ok {
		return store, nil
	}

	state := DefaultState()
	if m.repo != nil {
		loaded, err := m.repo.Load(ctx, userID)
		switch {
		case err == nil:
			state = *loaded
		case errors.Is(err, models.ErrNotFound):
			// first visit, start from defaults
		default:
			m.logger.Warn("Discarding unreadable trip state",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}

	store := NewStore(userID, state, m.repo, m.logger)
	m.stores[userID] = store
	return store, nil
}
