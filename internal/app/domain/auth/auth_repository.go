package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// Repository persists user accounts.
type Repository interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RepositoryImpl is the postgres implementation of Repository.
type RepositoryImpl struct {
	db     DB
	logger *zap.Logger
}

var _ Repository = (*RepositoryImpl)(nil)

// NewRepository creates a postgres-backed user repository.
func NewRepository(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		db:     db,
		logger: logger.With(zap.String("component", "auth_repository")),
	}
}

// CreateUser inserts a new account. A duplicate email yields
// models.ErrConflict.
func (r *RepositoryImpl) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, email, username, password_hash, created_at`,
		email, username, passwordHash,
	).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, errors.Wrap(models.ErrConflict, "email already registered")
		}
		r.logger.Error("Failed to create user", zap.Error(err))
		return nil, errors.Wrap(err, "failed to create user")
	}
	return &user, nil
}

// GetUserByEmail fetches an account by email, models.ErrNotFound when absent.
func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, username, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch user by email")
	}
	return &user, nil
}

// GetUserByID fetches an account by id, models.ErrNotFound when absent.
func (r *RepositoryImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, username, password_hash, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch user by id")
	}
	return &user, nil
}
