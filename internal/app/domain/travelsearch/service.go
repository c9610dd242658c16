// Package travelsearch finds flights and hotels for the planned trip and
// folds selected options into the itinerary.
package travelsearch

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/journeygenie/internal/app/domain/itinerary"
	"github.com/FACorreiaa/journeygenie/internal/app/domain/places"
	"github.com/FACorreiaa/journeygenie/internal/app/domain/trip"
	"github.com/FACorreiaa/journeygenie/internal/app/models"
	"github.com/FACorreiaa/journeygenie/internal/observability"
	"github.com/FACorreiaa/journeygenie/internal/pkg/ai"
	"github.com/FACorreiaa/journeygenie/internal/pkg/cache"
	"github.com/FACorreiaa/journeygenie/internal/pkg/config"
)

// defaultOrigin is used when neither the chat transcript nor the model can
// name a departure city.
const defaultOrigin = "New York"

// SearchClient is the provider surface for flight and hotel search.
type SearchClient interface {
	SearchFlights(ctx context.Context, params models.FlightSearchParams) ([]models.FlightResult, error)
	SearchHotels(ctx context.Context, params models.HotelSearchParams) ([]models.HotelResult, error)
}

// AIClient infers origins and airport codes when heuristics come up empty.
type AIClient interface {
	GenerateCompletion(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResult, error)
}

// TravelOptions is one search round's outcome. Flight and hotel failures are
// component-scoped: one side failing still delivers the other.
type TravelOptions struct {
	Origin          string                `json:"origin"`
	OriginCode      string                `json:"originCode"`
	Destination     string                `json:"destination"`
	DestinationCode string                `json:"destinationCode"`
	Flights         []models.FlightResult `json:"flights"`
	Hotels          []models.HotelResult  `json:"hotels"`
	FlightsError    string                `json:"flightsError,omitempty"`
	HotelsError     string                `json:"hotelsError,omitempty"`
}

// Service searches travel options and merges selections into the itinerary.
type Service interface {
	Search(ctx context.Context, userID uuid.UUID, store *trip.Store) (*TravelOptions, error)
	AddFlight(ctx context.Context, store *trip.Store, flight models.FlightResult, options TravelOptions) []models.DayPlan
	AddHotel(ctx context.Context, store *trip.Store, hotel models.HotelResult) []models.DayPlan
}

// ServiceImpl implements Service against the search provider.
type ServiceImpl struct {
	search SearchClient
	ai     AIClient
	llmCfg config.LLMConfig
	caches *cache.Manager
	codes  *gocache.Cache

	mu          sync.Mutex
	generations map[uuid.UUID]uint64

	logger *zap.Logger
}

var _ Service = (*ServiceImpl)(nil)

// NewService creates the travel search service.
func NewService(search SearchClient, aiClient AIClient, llmCfg config.LLMConfig, caches *cache.Manager, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		search:      search,
		ai:          aiClient,
		llmCfg:      llmCfg,
		caches:      caches,
		codes:       gocache.New(24*time.Hour, time.Hour),
		generations: make(map[uuid.UUID]uint64),
		logger:      logger.With(zap.String("component", "travelsearch")),
	}
}

// nextGeneration starts a new search round for the user, invalidating any
// round still in flight.
func (s *ServiceImpl) nextGeneration(userID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userID]++
	return s.generations[userID]
}

func (s *ServiceImpl) isCurrent(userID uuid.UUID, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID] == generation
}

// Search runs flight and hotel lookups in parallel for the current trip
// state. Each Search call supersedes the user's previous one: a round whose
// provider responses arrive after a newer round started returns
// models.ErrSearchSuperseded instead of stale results.
func (s *ServiceImpl) Search(ctx context.Context, userID uuid.UUID, store *trip.Store) (*TravelOptions, error) {
	ctx, span := otel.Tracer("travelsearch").Start(ctx, "Search")
	defer span.End()

	state := store.Snapshot()
	if state.Destination == "" {
		return nil, errors.Wrap(models.ErrBadRequest, "no destination selected")
	}
	if len(state.SelectedDates) == 0 {
		return nil, errors.Wrap(models.ErrBadRequest, "no travel dates selected")
	}

	origin := s.resolveOrigin(ctx, state)
	airportCodes := s.resolveAirportCodes(ctx, origin, state.Destination)

	options := &TravelOptions{
		Origin:          origin,
		OriginCode:      airportCodes.OriginCode,
		Destination:     state.Destination,
		DestinationCode: airportCodes.DestinationCode,
	}
	span.SetAttributes(
		attribute.String("search.origin", airportCodes.OriginCode),
		attribute.String("search.destination", airportCodes.DestinationCode),
	)

	generation := s.nextGeneration(userID)

	departDate := state.SelectedDates[0]
	var returnDate *time.Time
	if len(state.SelectedDates) > 1 {
		last := state.SelectedDates[len(state.SelectedDates)-1]
		returnDate = &last
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		flights, err := s.searchFlights(gctx, models.FlightSearchParams{
			Origin:      airportCodes.OriginCode,
			Destination: airportCodes.DestinationCode,
			DepartDate:  departDate,
			ReturnDate:  returnDate,
			Passengers:  1,
		})
		if err != nil {
			options.FlightsError = "Could not load flights, please try again."
			s.logger.Warn("Flight search failed", zap.Error(err))
			return nil
		}
		options.Flights = flights
		return nil
	})

	if returnDate != nil {
		g.Go(func() error {
			hotels, err := s.searchHotels(gctx, models.HotelSearchParams{
				Location: state.Destination,
				CheckIn:  departDate,
				CheckOut: *returnDate,
				Guests:   1,
			})
			if err != nil {
				options.HotelsError = "Could not load hotels, please try again."
				s.logger.Warn("Hotel search failed", zap.Error(err))
				return nil
			}
			options.Hotels = hotels
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search round failed")
		return nil, err
	}

	if !s.isCurrent(userID, generation) {
		observability.RecordSupersededSearch(ctx)
		span.SetStatus(codes.Error, "search superseded")
		s.logger.Info("Discarding superseded search round",
			zap.String("user_id", userID.String()),
			zap.Uint64("generation", generation),
		)
		return nil, models.ErrSearchSuperseded
	}

	span.SetStatus(codes.Ok, "search round completed")
	return options, nil
}

func (s *ServiceImpl) searchFlights(ctx context.Context, params models.FlightSearchParams) ([]models.FlightResult, error) {
	key := cache.Key("flights", params)
	if s.caches != nil {
		if cached, ok := s.caches.Flights.Get(key); ok {
			return cached, nil
		}
	}

	observability.RecordTravelSearch(ctx, "flights")
	flights, err := s.search.SearchFlights(ctx, params)
	if err != nil {
		return nil, err
	}
	if s.caches != nil {
		s.caches.Flights.Set(key, flights)
	}
	return flights, nil
}

func (s *ServiceImpl) searchHotels(ctx context.Context, params models.HotelSearchParams) ([]models.HotelResult, error) {
	key := cache.Key("hotels", params)
	if s.caches != nil {
		if cached, ok := s.caches.Hotels.Get(key); ok {
			return cached, nil
		}
	}

	observability.RecordTravelSearch(ctx, "hotels")
	hotels, err := s.search.SearchHotels(ctx, params)
	if err != nil {
		return nil, err
	}
	if s.caches != nil {
		s.caches.Hotels.Set(key, hotels)
	}
	return hotels, nil
}

// resolveOrigin finds the departure city: transcript heuristics first, then
// a model guess, then the default.
func (s *ServiceImpl) resolveOrigin(ctx context.Context, state models.TripState) string {
	session := state.CurrentSession()
	if session != nil {
		for _, msg := range session.Messages {
			if msg.Sender != models.SenderUser {
				continue
			}
			if origin, ok := places.ExtractOrigin(msg.Content); ok {
				return origin
			}
		}
	}

	if s.ai != nil && session != nil && len(session.Messages) > 1 {
		if origin := s.inferOriginFromModel(ctx, session, state.Destination); origin != "" {
			return origin
		}
	}
	return defaultOrigin
}

func (s *ServiceImpl) inferOriginFromModel(ctx context.Context, session *models.ChatSession, destination string) string {
	var transcript strings.Builder
	for _, msg := range session.Messages {
		if msg.Sender == models.SenderUser {
			transcript.WriteString(msg.Content)
			transcript.WriteString("\n")
		}
	}

	prompt := "Based on these chat messages, determine the city the user is most likely departing from for a trip to " +
		destination + ". Reply with ONLY the city name.\n\n" + transcript.String()

	result, err := s.ai.GenerateCompletion(ctx, ai.CompletionRequest{
		Model:     s.llmCfg.Model,
		MaxTokens: 20,
		Messages:  []ai.Message{{Role: ai.RoleUser, Content: prompt}},
	})
	if err != nil {
		s.logger.Warn("Origin inference failed, falling back to default", zap.Error(err))
		return ""
	}

	origin := strings.TrimSpace(strings.Trim(result.Text, ".\"' \n"))
	if origin == "" || len(origin) > 50 {
		return ""
	}
	return origin
}

var jsonObject = regexp.MustCompile(`\{[^{}]*\}`)

// resolveAirportCodes asks the model for the IATA codes of the city pair,
// caching answers. When the model cannot help, the first three letters of
// each city name stand in.
func (s *ServiceImpl) resolveAirportCodes(ctx context.Context, origin, destination string) models.AirportCodes {
	fallback := models.AirportCodes{
		OriginCode:      fallbackCode(origin),
		DestinationCode: fallbackCode(destination),
	}

	key := strings.ToLower(origin + "|" + destination)
	if cached, ok := s.codes.Get(key); ok {
		return cached.(models.AirportCodes)
	}

	if s.ai == nil {
		return fallback
	}

	prompt := "I need the 3-letter IATA airport codes for the main airports of these cities. " +
		"Origin: " + origin + ". Destination: " + destination + ". " +
		`Respond with ONLY a JSON object of the form {"originCode": "XXX", "destinationCode": "YYY"}.`

	result, err := s.ai.GenerateCompletion(ctx, ai.CompletionRequest{
		Model:     s.llmCfg.Model,
		MaxTokens: 60,
		Messages:  []ai.Message{{Role: ai.RoleUser, Content: prompt}},
	})
	if err != nil {
		s.logger.Warn("Airport code inference failed, using name prefixes", zap.Error(err))
		return fallback
	}

	raw := jsonObject.FindString(result.Text)
	if raw == "" {
		return fallback
	}

	var parsed models.AirportCodes
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil ||
		len(parsed.OriginCode) != 3 || len(parsed.DestinationCode) != 3 {
		return fallback
	}

	parsed.OriginCode = strings.ToUpper(parsed.OriginCode)
	parsed.DestinationCode = strings.ToUpper(parsed.DestinationCode)
	s.codes.Set(key, parsed, gocache.DefaultExpiration)
	return parsed
}

func fallbackCode(city string) string {
	letters := make([]rune, 0, 3)
	for _, r := range city {
		if r == ' ' {
			continue
		}
		letters = append(letters, r)
		if len(letters) == 3 {
			break
		}
	}
	return strings.ToUpper(string(letters))
}

// AddFlight merges the selected flight into the itinerary and stores the
// result as the current itinerary.
func (s *ServiceImpl) AddFlight(ctx context.Context, store *trip.Store, flight models.FlightResult, options TravelOptions) []models.DayPlan {
	state := store.Snapshot()
	tripDays := len(state.SelectedDates)

	merged := itinerary.MergeFlight(state.Itinerary, flight,
		options.Origin, options.OriginCode,
		options.Destination, options.DestinationCode, tripDays)
	store.SetItinerary(ctx, merged)

	s.logger.Info("Flight merged into itinerary",
		zap.String("airline", flight.Airline),
		zap.Int("trip_days", tripDays),
	)
	return merged
}

// AddHotel merges the selected hotel into the itinerary and stores the
// result as the current itinerary.
func (s *ServiceImpl) AddHotel(ctx context.Context, store *trip.Store, hotel models.HotelResult) []models.DayPlan {
	state := store.Snapshot()
	tripDays := len(state.SelectedDates)

	merged := itinerary.MergeHotel(state.Itinerary, hotel, tripDays)
	store.SetItinerary(ctx, merged)

	s.logger.Info("Hotel merged into itinerary",
		zap.String("hotel", hotel.Name),
		zap.Int("trip_days", tripDays),
	)
	return merged
}
