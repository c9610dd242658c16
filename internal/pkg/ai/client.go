// Package ai wraps the Gemini API behind a small completion interface so the
// domain services never touch the SDK types directly.
package ai

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/journeygenie/internal/pkg/config"
)

// Role tags a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn of a completion conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest carries the full conversation plus sampling parameters.
// Zero-valued sampling fields fall back to the client's configured defaults.
type CompletionRequest struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	Messages    []Message
}

// CompletionResult is the model's reply plus token accounting for the
// interaction log.
type CompletionResult struct {
	Text             string
	ModelName        string
	PromptTokens     int
	CompletionTokens int
}

// Client talks to the Gemini API.
type Client struct {
	client *genai.Client
	cfg    config.LLMConfig
	logger *zap.Logger
}

// NewClient creates a Gemini-backed completion client.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genai client")
	}
	return &Client{
		client: genaiClient,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "ai")),
	}, nil
}

// GenerateCompletion sends the conversation to the model and returns its
// reply. System messages are collapsed into the system instruction; user and
// assistant turns become the content history.
func (c *Client) GenerateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	ctx, span := otel.Tracer("ai").Start(ctx, "GenerateCompletion")
	defer span.End()

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	var system string
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return nil, errors.New("completion request has no user content")
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxTokens,
	}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	span.SetAttributes(
		attribute.String("gen_ai.request.model", model),
		attribute.Int("gen_ai.request.messages", len(req.Messages)),
	)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion request failed")
		c.logger.Error("Completion request failed", zap.String("model", model), zap.Error(err))
		return nil, errors.Wrap(err, "failed to generate completion")
	}

	result := &CompletionResult{
		Text:      resp.Text(),
		ModelName: model,
	}
	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	if result.Text == "" {
		span.SetStatus(codes.Error, "empty completion")
		return nil, errors.New("model returned an empty completion")
	}

	span.SetStatus(codes.Ok, "completion generated")
	return result, nil
}
