package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// Manager bundles the per-concern caches the search services share.
type Manager struct {
	Flights *Cache[[]models.FlightResult]
	Hotels  *Cache[[]models.HotelResult]
	Places  *Cache[*models.PlaceResult]
}

const (
	flightTTL = 15 * time.Minute
	hotelTTL  = 30 * time.Minute
	placeTTL  = 6 * time.Hour
)

// NewManager creates the caches with provider-appropriate TTLs. Flight fares
// churn fastest; place coordinates are effectively static.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		Flights: New[[]models.FlightResult](flightTTL, "flights", logger),
		Hotels:  New[[]models.HotelResult](hotelTTL, "hotels", logger),
		Places:  New[*models.PlaceResult](placeTTL, "places", logger),
	}
}
