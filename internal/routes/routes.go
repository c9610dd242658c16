// Package routes wires the domain handlers onto the gin router.
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/domain/auth"
	llmchat "github.com/FACorreiaa/journeygenie/internal/app/domain/chat_prompt"
	"github.com/FACorreiaa/journeygenie/internal/app/domain/places"
	"github.com/FACorreiaa/journeygenie/internal/app/domain/travelsearch"
	"github.com/FACorreiaa/journeygenie/internal/app/domain/trip"
	"github.com/FACorreiaa/journeygenie/internal/app/middleware"
	"github.com/FACorreiaa/journeygenie/internal/pkg/ai"
	"github.com/FACorreiaa/journeygenie/internal/pkg/cache"
	"github.com/FACorreiaa/journeygenie/internal/pkg/config"
	"github.com/FACorreiaa/journeygenie/internal/pkg/llmlog"
	"github.com/FACorreiaa/journeygenie/internal/pkg/serpapi"
)

// AppHandlers bundles every domain's HTTP handlers.
type AppHandlers struct {
	Auth   *auth.Handlers
	Trip   *trip.Handlers
	Chat   *llmchat.Handlers
	Search *travelsearch.Handlers
	Places *places.Handlers
}

// NewAppHandlers builds the full dependency graph from the shared pool and
// configuration.
func NewAppHandlers(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (*AppHandlers, error) {
	jwtService := auth.NewJWTService(cfg.JWTSecret, 24*time.Hour)
	authRepo := auth.NewRepository(pool, logger)
	authService := auth.NewService(authRepo, jwtService, logger)

	tripRepo := trip.NewRepository(pool, logger)
	tripManager := trip.NewManager(tripRepo, logger)

	caches := cache.NewManager(logger)
	searchClient := serpapi.New(cfg.Search, logger)

	aiClient, err := ai.NewClient(context.Background(), cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	llmLogger := llmlog.NewLogger(llmlog.NewRepository(pool, logger), logger)
	chatService := llmchat.NewService(aiClient, cfg.LLM, llmLogger, logger)
	searchService := travelsearch.NewService(searchClient, aiClient, cfg.LLM, caches, logger)
	placeService := places.NewService(searchClient, caches, logger)

	return &AppHandlers{
		Auth:   auth.NewHandlers(authService, logger),
		Trip:   trip.NewHandlers(tripManager, logger),
		Chat:   llmchat.NewHandlers(chatService, tripManager, logger),
		Search: travelsearch.NewHandlers(searchService, tripManager, logger),
		Places: places.NewHandlers(placeService, logger),
	}, nil
}

// Setup registers all routes. Everything except health and auth sits behind
// the JWT middleware.
func Setup(r *gin.Engine, cfg *config.Config, handlers *AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", handlers.Auth.HandleSignup)
		authGroup.POST("/signin", handlers.Auth.HandleSignin)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, 24*time.Hour)
	api := r.Group("/", middleware.AuthMiddleware(jwtService))
	{
		api.GET("/trip", handlers.Trip.HandleGetTrip)
		api.PUT("/trip/budget", handlers.Trip.HandleSetBudget)
		api.POST("/trip/dates/toggle", handlers.Trip.HandleToggleDate)
		api.PUT("/trip/dates", handlers.Trip.HandleSetDates)
		api.POST("/trip/preferences/toggle", handlers.Trip.HandleTogglePreference)
		api.PUT("/trip/destination", handlers.Trip.HandleSetDestination)
		api.PUT("/trip/itinerary", handlers.Trip.HandleSetItinerary)

		api.POST("/chat/new", handlers.Trip.HandleNewChat)
		api.POST("/chat/sessions/:id/load", handlers.Trip.HandleLoadChatSession)
		api.DELETE("/chat/sessions/:id", handlers.Trip.HandleDeleteChatSession)
		api.POST("/chat/message", handlers.Chat.HandleSendMessage)

		api.GET("/search/flights", handlers.Search.HandleSearchFlights)
		api.GET("/search/hotels", handlers.Search.HandleSearchHotels)
		api.POST("/itinerary/flights", handlers.Search.HandleAddFlight)
		api.POST("/itinerary/hotels", handlers.Search.HandleAddHotel)

		api.GET("/places/lookup", handlers.Places.HandleLookup)
	}
}
