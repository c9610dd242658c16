package trip

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RepositoryImpl stores each user's trip state as one JSONB record under the
// fixed storage key.
type RepositoryImpl struct {
	db     DB
	logger *zap.Logger
}

var _ Repository = (*RepositoryImpl)(nil)

// NewRepository creates a postgres-backed trip state repository.
func NewRepository(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		db:     db,
		logger: logger.With(zap.String("component", "trip_repository")),
	}
}

// Load reads the user's persisted state. Returns models.ErrNotFound when no
// record exists, and a wrapped error when the payload cannot be decoded.
func (r *RepositoryImpl) Load(ctx context.Context, userID uuid.UUID) (*models.TripState, error) {
	ctx, span := otel.Tracer("trip").Start(ctx, "Repository.Load")
	defer span.End()

	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM trip_states WHERE user_id = $1 AND storage_key = $2`,
		userID, StorageKey,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "trip state query failed")
		return nil, errors.Wrap(err, "failed to load trip state")
	}

	var state models.TripState
	if err := json.Unmarshal(payload, &state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "trip state payload corrupt")
		r.logger.Warn("Persisted trip state is not valid JSON",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, errors.Wrap(err, "corrupt trip state payload")
	}

	span.SetStatus(codes.Ok, "trip state loaded")
	return &state, nil
}

// Save upserts the user's serialized state under the storage key.
func (r *RepositoryImpl) Save(ctx context.Context, userID uuid.UUID, state *models.TripState) error {
	ctx, span := otel.Tracer("trip").Start(ctx, "Repository.Save")
	defer span.End()

	payload, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "trip state marshal failed")
		return errors.Wrap(err, "failed to marshal trip state")
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO trip_states (user_id, storage_key, payload, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, storage_key)
		 DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		userID, StorageKey, payload,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "trip state upsert failed")
		return errors.Wrap(err, "failed to save trip state")
	}

	span.SetStatus(codes.Ok, "trip state saved")
	return nil
}
