// Package llmlog records completion-service interactions for cost and
// latency tracking.
package llmlog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Interaction is one logged completion call. Prompts are stored only as a
// hash; the transcript itself stays out of the log.
type Interaction struct {
	ID               uuid.UUID  `json:"id"`
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	SessionID        string     `json:"session_id"`
	Intent           string     `json:"intent"`
	ModelName        string     `json:"model_name"`
	PromptHash       string     `json:"prompt_hash"`
	PromptTokens     int        `json:"prompt_tokens"`
	CompletionTokens int        `json:"completion_tokens"`
	LatencyMs        int64      `json:"latency_ms"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Filter narrows List queries. Zero-valued fields are ignored.
type Filter struct {
	SessionID string
	ModelName string
	Since     time.Time
	Limit     uint64
}

// Repository persists interactions.
type Repository interface {
	Save(ctx context.Context, interaction Interaction) error
	List(ctx context.Context, filter Filter) ([]Interaction, error)
}

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// RepositoryImpl is the postgres implementation of Repository.
type RepositoryImpl struct {
	db     DB
	logger *zap.Logger
}

var _ Repository = (*RepositoryImpl)(nil)

// NewRepository creates a postgres-backed interaction log.
func NewRepository(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		db:     db,
		logger: logger.With(zap.String("component", "llmlog")),
	}
}

// Save inserts one interaction record.
func (r *RepositoryImpl) Save(ctx context.Context, interaction Interaction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	query, args, err := psql.Insert("llm_interactions").
		Columns("id", "user_id", "session_id", "intent", "model_name",
			"prompt_hash", "prompt_tokens", "completion_tokens", "latency_ms", "created_at").
		Values(interaction.ID, interaction.UserID, interaction.SessionID, interaction.Intent,
			interaction.ModelName, interaction.PromptHash, interaction.PromptTokens,
			interaction.CompletionTokens, interaction.LatencyMs, interaction.CreatedAt).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build interaction insert")
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to save llm interaction")
	}
	return nil
}

// List returns interactions newest first, filtered and capped by the filter.
func (r *RepositoryImpl) List(ctx context.Context, filter Filter) ([]Interaction, error) {
	builder := psql.Select("id", "user_id", "session_id", "intent", "model_name",
		"prompt_hash", "prompt_tokens", "completion_tokens", "latency_ms", "created_at").
		From("llm_interactions").
		OrderBy("created_at DESC")

	if filter.SessionID != "" {
		builder = builder.Where(sq.Eq{"session_id": filter.SessionID})
	}
	if filter.ModelName != "" {
		builder = builder.Where(sq.Eq{"model_name": filter.ModelName})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.Since})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build interaction query")
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list llm interactions")
	}
	defer rows.Close()

	var interactions []Interaction
	for rows.Next() {
		var it Interaction
		if err := rows.Scan(&it.ID, &it.UserID, &it.SessionID, &it.Intent, &it.ModelName,
			&it.PromptHash, &it.PromptTokens, &it.CompletionTokens, &it.LatencyMs, &it.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan llm interaction")
		}
		interactions = append(interactions, it)
	}
	return interactions, rows.Err()
}

// HashPrompt creates a SHA256 hash of the prompt for anonymized tracking.
func HashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

// Logger records interactions asynchronously so logging never blocks a chat
// response.
type Logger struct {
	repo   Repository
	logger *zap.Logger
}

// NewLogger creates an async interaction logger. A nil repository disables
// logging.
func NewLogger(repo Repository, logger *zap.Logger) *Logger {
	return &Logger{repo: repo, logger: logger}
}

// LogAsync saves the interaction in the background. The write survives
// cancellation of the request context.
func (l *Logger) LogAsync(ctx context.Context, interaction Interaction) {
	if l == nil || l.repo == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		saveCtx, cancel := context.WithTimeout(detached, 5*time.Second)
		defer cancel()
		if err := l.repo.Save(saveCtx, interaction); err != nil {
			l.logger.Warn("Failed to log llm interaction", zap.Error(err))
		}
	}()
}
