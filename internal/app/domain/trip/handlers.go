package trip

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/middleware"
	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// Handlers exposes the trip-state HTTP endpoints.
type Handlers struct {
	manager *Manager
	logger  *zap.Logger
}

// NewHandlers creates the trip handlers.
func NewHandlers(manager *Manager, logger *zap.Logger) *Handlers {
	return &Handlers{manager: manager, logger: logger}
}

func (h *Handlers) storeFor(c *gin.Context) (*Store, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	store, err := h.manager.ForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load trip state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load trip state"})
		return nil, false
	}
	return store, true
}

// HandleGetTrip returns the full current trip state.
func (h *Handlers) HandleGetTrip(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.Snapshot())
}

// HandleSetBudget replaces the trip budget.
func (h *Handlers) HandleSetBudget(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	var req struct {
		Budget int `json:"budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Budget < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget must be a non-negative number"})
		return
	}

	store.SetBudget(c.Request.Context(), req.Budget)
	c.JSON(http.StatusOK, gin.H{"budget": req.Budget})
}

// HandleToggleDate toggles one calendar day in the selection.
func (h *Handlers) HandleToggleDate(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	var req struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	store.ToggleDate(c.Request.Context(), date)
	c.JSON(http.StatusOK, gin.H{"selectedDates": store.Snapshot().SelectedDates})
}

// HandleSetDates replaces the whole date selection.
func (h *Handlers) HandleSetDates(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	var req struct {
		Dates []string `json:"dates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates is required"})
		return
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be formatted YYYY-MM-DD"})
			return
		}
		dates = append(dates, date)
	}

	store.SetSelectedDates(c.Request.Context(), dates)
	c.JSON(http.StatusOK, gin.H{"selectedDates": store.Snapshot().SelectedDates})
}

// HandleTogglePreference toggles one preference tag.
func (h *Handlers) HandleTogglePreference(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	var req struct {
		Preference string `json:"preference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preference is required"})
		return
	}

	store.TogglePreference(c.Request.Context(), req.Preference)
	c.JSON(http.StatusOK, gin.H{"selectedPreferences": store.Snapshot().SelectedPreferences})
}

// HandleSetDestination records the destination (and retitles a fresh chat).
func (h *Handlers) HandleSetDestination(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	var req struct {
		Destination string `json:"destination"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination payload is invalid"})
		return
	}

	store.SetDestination(c.Request.Context(), req.Destination)
	c.JSON(http.StatusOK, gin.H{"destination": req.Destination})
}

// HandleSetItinerary replaces the current itinerary wholesale.
func (h *Handlers) HandleSetItinerary(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	var req struct {
		Itinerary []models.DayPlan `json:"itinerary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itinerary payload is invalid"})
		return
	}
	for _, plan := range req.Itinerary {
		if plan.Day < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day numbers must be positive"})
			return
		}
	}

	store.SetItinerary(c.Request.Context(), req.Itinerary)
	c.JSON(http.StatusOK, gin.H{"itinerary": store.Snapshot().Itinerary})
}

// HandleNewChat starts a fresh chat session.
func (h *Handlers) HandleNewChat(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}
	session := store.StartNewChat(c.Request.Context())
	c.JSON(http.StatusCreated, session)
}

// HandleLoadChatSession switches to a saved session. An unknown id is a
// no-op: the unchanged state comes back with 200, mirroring the store.
func (h *Handlers) HandleLoadChatSession(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	store.LoadChatSession(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, store.Snapshot())
}

// HandleDeleteChatSession removes a saved session.
func (h *Handlers) HandleDeleteChatSession(c *gin.Context) {
	store, ok := h.storeFor(c)
	if !ok {
		return
	}

	store.DeleteChatSession(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, store.Snapshot())
}
