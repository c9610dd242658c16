// Package serpapi is a thin client for the SerpAPI flight, hotel, and maps
// search engines.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/models"
	"github.com/FACorreiaa/journeygenie/internal/pkg/config"
)

const (
	maxResults     = 5
	requestTimeout = 30 * time.Second
	dateLayout     = "2006-01-02"
)

// Client calls SerpAPI over HTTPS.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a SerpAPI client from the search provider configuration.
func New(cfg config.SearchConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.With(zap.String("component", "serpapi")),
	}
}

type searchMetadata struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type flightSegment struct {
	Airline          string `json:"airline"`
	DepartureAirport struct {
		Time string `json:"time"`
	} `json:"departure_airport"`
	ArrivalAirport struct {
		Time string `json:"time"`
	} `json:"arrival_airport"`
}

type flightOption struct {
	Flights       []flightSegment `json:"flights"`
	Price         json.Number     `json:"price"`
	TotalDuration int             `json:"total_duration"`
	BookingToken  string          `json:"booking_token"`
}

type flightResponse struct {
	SearchMetadata searchMetadata `json:"search_metadata"`
	Error          string         `json:"error"`
	BestFlights    []flightOption `json:"best_flights"`
	OtherFlights   []flightOption `json:"other_flights"`
}

type hotelProperty struct {
	Name         string `json:"name"`
	RatePerNight struct {
		Lowest string `json:"lowest"`
	} `json:"rate_per_night"`
	OverallRating float64 `json:"overall_rating"`
	Images        []struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"images"`
	Link string `json:"link"`
}

type hotelResponse struct {
	SearchMetadata searchMetadata  `json:"search_metadata"`
	Error          string          `json:"error"`
	Properties     []hotelProperty `json:"properties"`
}

type mapsResponse struct {
	SearchMetadata searchMetadata `json:"search_metadata"`
	Error          string         `json:"error"`
	PlaceResults   struct {
		Title          string `json:"title"`
		GPSCoordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"gps_coordinates"`
	} `json:"place_results"`
	LocalResults []struct {
		Title          string  `json:"title"`
		Type           string  `json:"type"`
		Rating         float64 `json:"rating"`
		Thumbnail      string  `json:"thumbnail"`
		GPSCoordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"gps_coordinates"`
	} `json:"local_results"`
}

// SearchFlights queries the google_flights engine and returns the top ranked
// offers, best matches first.
func (c *Client) SearchFlights(ctx context.Context, params models.FlightSearchParams) ([]models.FlightResult, error) {
	ctx, span := otel.Tracer("serpapi").Start(ctx, "SearchFlights")
	defer span.End()
	span.SetAttributes(
		attribute.String("flight.origin", params.Origin),
		attribute.String("flight.destination", params.Destination),
	)

	query := url.Values{}
	query.Set("engine", "google_flights")
	query.Set("departure_id", params.Origin)
	query.Set("arrival_id", params.Destination)
	query.Set("outbound_date", params.DepartDate.Format(dateLayout))
	if params.ReturnDate != nil {
		query.Set("return_date", params.ReturnDate.Format(dateLayout))
	} else {
		query.Set("type", "2") // one-way
	}
	query.Set("adults", strconv.Itoa(max(params.Passengers, 1)))
	query.Set("currency", "USD")

	var payload flightResponse
	if err := c.get(ctx, query, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return nil, err
	}
	if err := providerError(payload.SearchMetadata, payload.Error); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "flight search rejected")
		return nil, err
	}

	options := append(payload.BestFlights, payload.OtherFlights...)
	if len(options) > maxResults {
		options = options[:maxResults]
	}

	results := make([]models.FlightResult, 0, len(options))
	for _, opt := range options {
		if len(opt.Flights) == 0 {
			continue
		}
		first := opt.Flights[0]
		last := opt.Flights[len(opt.Flights)-1]
		results = append(results, models.FlightResult{
			Airline:       first.Airline,
			Price:         "$" + opt.Price.String(),
			Duration:      formatDuration(opt.TotalDuration),
			Stops:         len(opt.Flights) - 1,
			DepartureTime: first.DepartureAirport.Time,
			ArrivalTime:   last.ArrivalAirport.Time,
			URL:           bookingURL(opt.BookingToken),
		})
	}

	span.SetAttributes(attribute.Int("flight.results", len(results)))
	span.SetStatus(codes.Ok, "flights fetched")
	c.logger.Info("Flight search completed",
		zap.String("origin", params.Origin),
		zap.String("destination", params.Destination),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// SearchHotels queries the google_hotels engine for the stay window.
func (c *Client) SearchHotels(ctx context.Context, params models.HotelSearchParams) ([]models.HotelResult, error) {
	ctx, span := otel.Tracer("serpapi").Start(ctx, "SearchHotels")
	defer span.End()
	span.SetAttributes(attribute.String("hotel.location", params.Location))

	query := url.Values{}
	query.Set("engine", "google_hotels")
	query.Set("q", params.Location)
	query.Set("check_in_date", params.CheckIn.Format(dateLayout))
	query.Set("check_out_date", params.CheckOut.Format(dateLayout))
	query.Set("adults", strconv.Itoa(max(params.Guests, 1)))
	query.Set("currency", "USD")

	var payload hotelResponse
	if err := c.get(ctx, query, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return nil, err
	}
	if err := providerError(payload.SearchMetadata, payload.Error); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hotel search rejected")
		return nil, err
	}

	properties := payload.Properties
	if len(properties) > maxResults {
		properties = properties[:maxResults]
	}

	results := make([]models.HotelResult, 0, len(properties))
	for _, prop := range properties {
		hotel := models.HotelResult{
			Name:   prop.Name,
			Price:  prop.RatePerNight.Lowest,
			Rating: prop.OverallRating,
			URL:    prop.Link,
		}
		if len(prop.Images) > 0 {
			hotel.ImageURL = prop.Images[0].Thumbnail
		}
		results = append(results, hotel)
	}

	span.SetAttributes(attribute.Int("hotel.results", len(results)))
	span.SetStatus(codes.Ok, "hotels fetched")
	c.logger.Info("Hotel search completed",
		zap.String("location", params.Location),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// LookupPlace resolves a free-form place name to coordinates and nearby
// points of interest via the google_maps engine.
func (c *Client) LookupPlace(ctx context.Context, name string) (*models.PlaceResult, error) {
	ctx, span := otel.Tracer("serpapi").Start(ctx, "LookupPlace")
	defer span.End()
	span.SetAttributes(attribute.String("place.query", name))

	query := url.Values{}
	query.Set("engine", "google_maps")
	query.Set("q", name)
	query.Set("type", "search")

	var payload mapsResponse
	if err := c.get(ctx, query, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return nil, err
	}
	if err := providerError(payload.SearchMetadata, payload.Error); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place lookup rejected")
		return nil, err
	}

	result := &models.PlaceResult{Name: name}
	if payload.PlaceResults.Title != "" {
		result.Name = payload.PlaceResults.Title
		result.Latitude = payload.PlaceResults.GPSCoordinates.Latitude
		result.Longitude = payload.PlaceResults.GPSCoordinates.Longitude
	} else if len(payload.LocalResults) > 0 {
		first := payload.LocalResults[0]
		result.Name = first.Title
		result.Latitude = first.GPSCoordinates.Latitude
		result.Longitude = first.GPSCoordinates.Longitude
	} else {
		return nil, errors.Errorf("no place found for %q", name)
	}

	nearby := payload.LocalResults
	if len(nearby) > maxResults {
		nearby = nearby[:maxResults]
	}
	for _, poi := range nearby {
		result.Nearby = append(result.Nearby, models.NearbyPOI{
			Name:     poi.Title,
			Category: poi.Type,
			Rating:   poi.Rating,
			PhotoURL: poi.Thumbnail,
		})
	}

	span.SetStatus(codes.Ok, "place resolved")
	return result, nil
}

func (c *Client) get(ctx context.Context, query url.Values, out any) error {
	query.Set("api_key", c.apiKey)

	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build search request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Search request failed", zap.Error(err))
		return errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read search response")
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Search provider returned non-OK status",
			zap.Int("status", resp.StatusCode),
		)
		return errors.Errorf("search provider returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to decode search response")
	}
	return nil
}

func providerError(meta searchMetadata, topLevel string) error {
	if topLevel != "" {
		return errors.Errorf("search provider error: %s", topLevel)
	}
	if meta.Error != "" {
		return errors.Errorf("search provider error: %s", meta.Error)
	}
	if meta.Status != "" && meta.Status != "Success" {
		return errors.Errorf("search provider status: %s", meta.Status)
	}
	return nil
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	rem := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", rem)
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}

func bookingURL(token string) string {
	if token == "" {
		return "https://www.google.com/travel/flights"
	}
	return "https://www.google.com/travel/flights/booking?token=" + url.QueryEscape(token)
}
