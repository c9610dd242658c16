package llmchat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/domain/trip"
	"github.com/FACorreiaa/journeygenie/internal/app/middleware"
	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// Handlers exposes the chat HTTP endpoints.
type Handlers struct {
	service Service
	trips   *trip.Manager
	logger  *zap.Logger
}

// NewHandlers creates the chat handlers.
func NewHandlers(service Service, trips *trip.Manager, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, trips: trips, logger: logger}
}

// HandleSendMessage runs one chat turn and returns the assistant reply plus
// the trip state it may have updated.
func (h *Handlers) HandleSendMessage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	store, err := h.trips.ForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load trip state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load trip state"})
		return
	}

	reply, err := h.service.SendMessage(c.Request.Context(), userID, store, req.Content)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}
		h.logger.Error("Chat turn failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "the assistant is unavailable, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": reply,
		"trip":    store.Snapshot(),
	})
}
