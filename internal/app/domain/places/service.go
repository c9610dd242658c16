package places

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
	"github.com/FACorreiaa/journeygenie/internal/pkg/cache"
)

// LookupClient resolves a free-form place name with the maps provider.
type LookupClient interface {
	LookupPlace(ctx context.Context, name string) (*models.PlaceResult, error)
}

// Service answers place lookups, caching provider responses.
type Service interface {
	Lookup(ctx context.Context, name string) (*models.PlaceResult, error)
}

// ServiceImpl implements Service on top of the search provider.
type ServiceImpl struct {
	client LookupClient
	caches *cache.Manager
	logger *zap.Logger
}

var _ Service = (*ServiceImpl)(nil)

// NewService creates the place lookup service.
func NewService(client LookupClient, caches *cache.Manager, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		client: client,
		caches: caches,
		logger: logger.With(zap.String("component", "places")),
	}
}

// Lookup resolves the place name, serving repeated lookups from cache.
func (s *ServiceImpl) Lookup(ctx context.Context, name string) (*models.PlaceResult, error) {
	ctx, span := otel.Tracer("places").Start(ctx, "Lookup")
	defer span.End()
	span.SetAttributes(attribute.String("place.name", name))

	if name == "" {
		return nil, errors.Wrap(models.ErrBadRequest, "place name is required")
	}

	key := cache.Key("place", name)
	if s.caches != nil {
		if cached, ok := s.caches.Places.Get(key); ok {
			span.SetStatus(codes.Ok, "place served from cache")
			return cached, nil
		}
	}

	result, err := s.client.LookupPlace(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place lookup failed")
		s.logger.Warn("Place lookup failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	if s.caches != nil {
		s.caches.Places.Set(key, result)
	}
	span.SetStatus(codes.Ok, "place resolved")
	return result, nil
}
