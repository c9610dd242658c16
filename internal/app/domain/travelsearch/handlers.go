package travelsearch

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/domain/trip"
	"github.com/FACorreiaa/journeygenie/internal/app/middleware"
	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// Handlers exposes the travel search HTTP endpoints.
type Handlers struct {
	service Service
	trips   *trip.Manager
	logger  *zap.Logger
}

// NewHandlers creates the travel search handlers.
func NewHandlers(service Service, trips *trip.Manager, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, trips: trips, logger: logger}
}

func (h *Handlers) searchFor(c *gin.Context) (*TravelOptions, *trip.Store, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, nil, false
	}

	store, err := h.trips.ForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load trip state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load trip state"})
		return nil, nil, false
	}

	options, err := h.service.Search(c.Request.Context(), userID, store)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrSearchSuperseded):
			// A newer search started while this one was in flight; the
			// newer response is the one worth rendering.
			c.JSON(http.StatusConflict, gin.H{"error": "search superseded by a newer request"})
		default:
			h.logger.Error("Travel search failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "travel search is unavailable, please try again"})
		}
		return nil, nil, false
	}
	return options, store, true
}

// HandleSearchFlights searches flights for the planned trip.
func (h *Handlers) HandleSearchFlights(c *gin.Context) {
	options, _, ok := h.searchFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"origin":          options.Origin,
		"originCode":      options.OriginCode,
		"destination":     options.Destination,
		"destinationCode": options.DestinationCode,
		"flights":         options.Flights,
		"flightsError":    options.FlightsError,
	})
}

// HandleSearchHotels searches hotels for the planned stay window.
func (h *Handlers) HandleSearchHotels(c *gin.Context) {
	options, _, ok := h.searchFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"destination": options.Destination,
		"hotels":      options.Hotels,
		"hotelsError": options.HotelsError,
	})
}

// HandleAddFlight merges a selected flight into the itinerary.
func (h *Handlers) HandleAddFlight(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Flight  models.FlightResult `json:"flight" binding:"required"`
		Options TravelOptions       `json:"options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flight is required"})
		return
	}

	store, err := h.trips.ForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load trip state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load trip state"})
		return
	}

	merged := h.service.AddFlight(c.Request.Context(), store, req.Flight, req.Options)
	c.JSON(http.StatusOK, gin.H{"itinerary": merged})
}

// HandleAddHotel merges a selected hotel into the itinerary.
func (h *Handlers) HandleAddHotel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Hotel models.HotelResult `json:"hotel" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotel is required"})
		return
	}

	store, err := h.trips.ForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load trip state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load trip state"})
		return
	}

	merged := h.service.AddHotel(c.Request.Context(), store, req.Hotel)
	c.JSON(http.StatusOK, gin.H{"itinerary": merged})
}
