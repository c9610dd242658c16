// Package llmchat drives the planning conversation: it assembles trip
// context into prompts, relays messages to the completion service, and feeds
// itinerary-shaped replies back into the trip state.
package llmchat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/journeygenie/internal/app/domain/itinerary"
	"github.com/FACorreiaa/journeygenie/internal/app/domain/places"
	"github.com/FACorreiaa/journeygenie/internal/app/domain/trip"
	"github.com/FACorreiaa/journeygenie/internal/app/models"
	"github.com/FACorreiaa/journeygenie/internal/observability"
	"github.com/FACorreiaa/journeygenie/internal/pkg/ai"
	"github.com/FACorreiaa/journeygenie/internal/pkg/config"
	"github.com/FACorreiaa/journeygenie/internal/pkg/llmlog"
)

// AIClient is the completion surface the chat service depends on.
type AIClient interface {
	GenerateCompletion(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResult, error)
}

// Service handles one user turn of the planning conversation.
type Service interface {
	SendMessage(ctx context.Context, userID uuid.UUID, store *trip.Store, content string) (*models.ChatMessage, error)
}

// ServiceImpl implements Service against the configured completion model.
type ServiceImpl struct {
	aiClient AIClient
	llmCfg   config.LLMConfig
	llmLog   *llmlog.Logger
	logger   *zap.Logger
}

var _ Service = (*ServiceImpl)(nil)

// NewService creates the chat service. llmLog may be nil to disable
// interaction logging.
func NewService(aiClient AIClient, llmCfg config.LLMConfig, llmLog *llmlog.Logger, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		aiClient: aiClient,
		llmCfg:   llmCfg,
		llmLog:   llmLog,
		logger:   logger.With(zap.String("component", "llmchat")),
	}
}

// SendMessage appends the user's message to the active session (starting one
// if needed), asks the model for a reply with the full trip context, and
// returns the appended assistant message. A reply that parses as day plans
// also replaces the current itinerary. On completion failure the user
// message stays in the transcript so the turn can be retried.
func (s *ServiceImpl) SendMessage(ctx context.Context, userID uuid.UUID, store *trip.Store, content string) (*models.ChatMessage, error) {
	ctx, span := otel.Tracer("llmchat").Start(ctx, "SendMessage")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.ErrBadRequest
	}

	if snapshot := store.Snapshot(); snapshot.CurrentSession() == nil {
		store.StartNewChat(ctx)
	}

	if _, err := store.AppendMessage(ctx, models.SenderUser, content); err != nil {
		return nil, err
	}

	// A destination mentioned in passing becomes trip state before the
	// prompt is built, so the model plans against it immediately.
	if store.Snapshot().Destination == "" {
		if destination, ok := places.ExtractDestination(content); ok {
			store.SetDestination(ctx, destination)
			s.logger.Info("Destination inferred from chat",
				zap.String("destination", destination),
			)
		}
	}

	state := store.Snapshot()
	session := state.CurrentSession()
	systemPrompt := BuildSystemPrompt(state)

	messages := make([]ai.Message, 0, len(session.Messages)+1)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: systemPrompt})
	for _, msg := range session.Messages {
		role := ai.RoleUser
		if msg.Sender == models.SenderAssistant {
			role = ai.RoleAssistant
		}
		messages = append(messages, ai.Message{Role: role, Content: msg.Content})
	}

	span.SetAttributes(
		attribute.String("chat.session_id", session.ID),
		attribute.Int("chat.transcript_len", len(session.Messages)),
	)

	start := time.Now()
	result, err := s.aiClient.GenerateCompletion(ctx, ai.CompletionRequest{
		Model:       s.llmCfg.Model,
		Temperature: s.llmCfg.Temperature,
		MaxTokens:   s.llmCfg.MaxTokens,
		Messages:    messages,
	})
	latency := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		s.logger.Error("Chat completion failed",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		return nil, err
	}

	observability.RecordChatMessage(ctx, result.ModelName)
	observability.RecordLLMLatency(ctx, latency)

	s.llmLog.LogAsync(ctx, llmlog.Interaction{
		UserID:           &userID,
		SessionID:        session.ID,
		Intent:           "chat",
		ModelName:        result.ModelName,
		PromptHash:       llmlog.HashPrompt(systemPrompt + content),
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		LatencyMs:        latency.Milliseconds(),
	})

	if plans := itinerary.Extract(result.Text, s.logger); len(plans) > 0 {
		store.SetItinerary(ctx, plans)
		observability.RecordItineraryExtraction(ctx, true)
	} else {
		observability.RecordItineraryExtraction(ctx, false)
	}

	reply, err := store.AppendMessage(ctx, models.SenderAssistant, result.Text)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "chat turn completed")
	return &reply, nil
}
