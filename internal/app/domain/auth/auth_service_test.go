package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, email, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(repo Repository) *ServiceImpl {
	return NewService(repo, NewJWTService("test-secret-key-that-is-long-enough", time.Hour), zap.NewNop())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Username: "ana"}
	mockRepo.On("CreateUser", mock.Anything, "ana@example.com", "ana", mock.Anything).Return(user, nil)

	svc := newTestService(mockRepo)
	created, token, err := svc.Register(ctx, "Ana@Example.com", "ana", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user, created)
	assert.NotEmpty(t, token)

	claims, err := svc.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(new(MockRepository))

	_, _, err := svc.Register(context.Background(), "", "ana", "correct-horse")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = svc.Register(context.Background(), "ana@example.com", "ana", "short")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, models.ErrConflict)

	svc := newTestService(mockRepo)
	_, _, err := svc.Register(context.Background(), "ana@example.com", "ana", "correct-horse")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)}
	mockRepo := new(MockRepository)
	mockRepo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	svc := newTestService(mockRepo)

	_, token, err := svc.Login(context.Background(), "ana@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestLoginUnknownEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, models.ErrNotFound)

	svc := newTestService(mockRepo)
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, models.ErrUnauthenticated, "unknown email reads like a wrong password")
}

func TestJWTRoundTrip(t *testing.T) {
	jwtService := NewJWTService("another-test-secret-key", time.Hour)
	token, err := jwtService.GenerateToken("user-1", "ana@example.com", "ana")
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	_, err = NewJWTService("a-different-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err, "token signed with another secret is rejected")
}
