package observability

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the service's metric instruments.
type AppMetrics struct {
	ChatMessagesTotal         metric.Int64Counter
	LLMRequestDuration        metric.Float64Histogram
	ItineraryExtractionsTotal metric.Int64Counter
	TravelSearchesTotal       metric.Int64Counter
	SupersededSearchesTotal   metric.Int64Counter
	AuthRequestsTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// initMetrics creates the instruments once against the global meter provider.
func initMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("journeygenie")
		var err error
		m := &AppMetrics{}

		m.ChatMessagesTotal, err = meter.Int64Counter(
			"chat_messages_total",
			metric.WithDescription("Total chat turns completed against the model"),
			metric.WithUnit("{message}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create chat_messages_total: %v", err)
		}

		m.LLMRequestDuration, err = meter.Float64Histogram(
			"llm_request_duration_seconds",
			metric.WithDescription("Latency of completion-service requests"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create llm_request_duration_seconds: %v", err)
		}

		m.ItineraryExtractionsTotal, err = meter.Int64Counter(
			"itinerary_extractions_total",
			metric.WithDescription("Assistant replies scanned for day plans, by outcome"),
			metric.WithUnit("{reply}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create itinerary_extractions_total: %v", err)
		}

		m.TravelSearchesTotal, err = meter.Int64Counter(
			"travel_searches_total",
			metric.WithDescription("Flight and hotel searches issued to the provider"),
			metric.WithUnit("{search}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create travel_searches_total: %v", err)
		}

		m.SupersededSearchesTotal, err = meter.Int64Counter(
			"travel_searches_superseded_total",
			metric.WithDescription("Search responses discarded because a newer search started"),
			metric.WithUnit("{search}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create travel_searches_superseded_total: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create auth_requests_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized instruments, or nil before Init ran. The
// Record helpers tolerate nil so unit tests need no metrics setup.
func Get() *AppMetrics {
	return appMetrics
}

// RecordChatMessage counts one completed chat turn.
func RecordChatMessage(ctx context.Context, model string) {
	if m := Get(); m != nil {
		m.ChatMessagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("model", model)))
	}
}

// RecordLLMLatency records one completion round-trip.
func RecordLLMLatency(ctx context.Context, d time.Duration) {
	if m := Get(); m != nil {
		m.LLMRequestDuration.Record(ctx, d.Seconds())
	}
}

// RecordItineraryExtraction counts one extraction attempt by outcome.
func RecordItineraryExtraction(ctx context.Context, hit bool) {
	if m := Get(); m != nil {
		outcome := "miss"
		if hit {
			outcome = "hit"
		}
		m.ItineraryExtractionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// RecordTravelSearch counts one provider search by kind (flights or hotels).
func RecordTravelSearch(ctx context.Context, kind string) {
	if m := Get(); m != nil {
		m.TravelSearchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

// RecordSupersededSearch counts one discarded stale search response.
func RecordSupersededSearch(ctx context.Context) {
	if m := Get(); m != nil {
		m.SupersededSearchesTotal.Add(ctx, 1)
	}
}

// RecordAuthRequest counts one auth attempt by operation and outcome.
func RecordAuthRequest(ctx context.Context, operation string, success bool) {
	if m := Get(); m != nil {
		m.AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.Bool("success", success),
		))
	}
}
