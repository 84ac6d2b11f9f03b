// Package respond implements the generation half of the pipeline: a single
// synchronous chat-completion call to a hosted model, grounded in the
// retrieved FAQ text. Failures are classified here at the boundary; callers
// only map classes, never re-interpret them.
package respond

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
)

// Apology is returned when the model answers with a well-formed response
// that contains no choices.
const Apology = "I couldn't generate a response for that. Please try rephrasing."

const systemPrompt = "You are a helpful assistant for Punjab Group of Colleges Jaranwala. " +
	"Use the provided college FAQ to answer the user's question. " +
	"If the FAQ does not contain the answer, politely state that you don't have information on that topic. " +
	"Keep your answer concise and directly related to the provided FAQ. " +
	"Always prioritize information from the provided FAQ."

// Options configures the hosted-model call.
type Options struct {
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// DefaultOptions returns the bounded parameters used in production.
func DefaultOptions() Options {
	return Options{
		Model:       "deepseek-chat",
		BaseURL:     "https://api.deepseek.com/v1",
		MaxTokens:   300,
		Temperature: 0.7,
		Timeout:     10 * time.Second,
	}
}

// Responder calls a hosted chat-completion endpoint.
type Responder struct {
	client *openai.Client
	opts   Options
	logger *slog.Logger
}

// New creates a Responder. A missing credential is a configuration error the
// caller must treat as startup-fatal, never per-request.
func New(apiKey string, opts Options, logger *slog.Logger) (*Responder, error) {
	if apiKey == "" {
		return nil, errors.New("respond: API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &Responder{
		client: openai.NewClientWithConfig(cfg),
		opts:   opts,
		logger: logger,
	}, nil
}

// Generate asks the hosted model for a conversational answer grounded in the
// supplied FAQ text. The call is synchronous, non-streaming, and bounded by
// Options.Timeout.
func (r *Responder) Generate(ctx context.Context, userQuery, grounding string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("User's original question: %s\n\nRelevant College FAQ:\n%s", userQuery, grounding),
			},
		},
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
		Stream:      false,
	})
	if err != nil {
		return "", r.classify(err)
	}

	if len(resp.Choices) == 0 {
		r.logger.Warn("hosted model returned no choices")
		return Apology, nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classify maps a transport or API failure onto the domain taxonomy.
func (r *Responder) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("respond: %w after %s", domain.ErrUpstreamTimeout, r.opts.Timeout)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusPaymentRequired {
			return fmt.Errorf("respond: %w: %s", domain.ErrUpstreamQuota, apiErr.Message)
		}
		return &domain.UpstreamError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusPaymentRequired {
			return fmt.Errorf("respond: %w: %s", domain.ErrUpstreamQuota, string(reqErr.Body))
		}
		return &domain.UpstreamError{Status: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
	}

	return fmt.Errorf("respond: %w: %w", domain.ErrUpstreamGeneric, err)
}
