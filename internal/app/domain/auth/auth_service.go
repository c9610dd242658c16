// Package auth handles account registration, sign-in, and token issuing.
package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
	"github.com/FACorreiaa/journeygenie/internal/observability"
)

// Service exposes the account operations.
type Service interface {
	Register(ctx context.Context, email, username, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// ServiceImpl implements Service with bcrypt hashes and JWT access tokens.
type ServiceImpl struct {
	repo   Repository
	jwt    *JWTService
	logger *zap.Logger
}

var _ Service = (*ServiceImpl)(nil)

// NewService creates the auth service.
func NewService(repo Repository, jwtService *JWTService, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		jwt:    jwtService,
		logger: logger.With(zap.String("component", "auth")),
	}
}

// Register creates an account and returns it with a signed access token.
func (s *ServiceImpl) Register(ctx context.Context, email, username, password string) (*models.User, string, error) {
	ctx, span := otel.Tracer("auth").Start(ctx, "Register")
	defer span.End()

	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || len(password) < 8 {
		return nil, "", errors.Wrap(models.ErrValidation, "email, username, and a password of at least 8 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to hash password")
	}

	user, err := s.repo.CreateUser(ctx, email, username, string(hash))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registration failed")
		observability.RecordAuthRequest(ctx, "register", false)
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Username)
	if err != nil {
		return nil, "", err
	}

	observability.RecordAuthRequest(ctx, "register", true)
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	span.SetStatus(codes.Ok, "user registered")
	return user, token, nil
}

// Login verifies credentials and returns the account with a signed access
// token. Wrong email and wrong password are indistinguishable to the caller.
func (s *ServiceImpl) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	ctx, span := otel.Tracer("auth").Start(ctx, "Login")
	defer span.End()

	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		observability.RecordAuthRequest(ctx, "login", false)
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", errors.Wrap(models.ErrUnauthenticated, "invalid credentials")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "login lookup failed")
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		observability.RecordAuthRequest(ctx, "login", false)
		return nil, "", errors.Wrap(models.ErrUnauthenticated, "invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Username)
	if err != nil {
		return nil, "", err
	}

	observability.RecordAuthRequest(ctx, "login", true)
	span.SetStatus(codes.Ok, "user logged in")
	return user, token, nil
}
