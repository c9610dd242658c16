package places

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
)

// Handlers exposes the place lookup HTTP endpoint.
type Handlers struct {
	service Service
	logger  *zap.Logger
}

// NewHandlers creates the places handlers.
func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// HandleLookup resolves ?q= to coordinates and nearby points of interest.
func (h *Handlers) HandleLookup(c *gin.Context) {
	name := c.Query("q")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	result, err := h.service.Lookup(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Warn("Place lookup failed", zap.String("q", name), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "place lookup is unavailable, please try again"})
		return
	}

	c.JSON(http.StatusOK, result)
}
