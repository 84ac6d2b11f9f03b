// Package rag orchestrates the retrieval-then-generation pipeline. It accepts
// a user question, finds the closest stored FAQ, builds grounding text, and
// asks the hosted model for a conversational answer backed by that FAQ.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
)

// NoMatchMessage is returned when the store holds nothing relevant. The
// hosted model is never called in that case.
const NoMatchMessage = "I couldn't find a relevant FAQ for your question. " +
	"Please try rephrasing or ask about general college topics."

// Matcher abstracts the retrieval half of the pipeline.
type Matcher interface {
	FindBestMatch(ctx context.Context, queryText string, topK int) ([]domain.Match, error)
}

// Generator abstracts the hosted chat-completion half of the pipeline.
type Generator interface {
	Generate(ctx context.Context, userQuery, grounding string) (string, error)
}

// Options configures the pipeline behaviour.
type Options struct {
	TopK int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{TopK: 1}
}

// Service runs the pipeline. It holds no mutable state and is safe for
// concurrent use; the store and model connections are read-only at query time.
type Service struct {
	match  Matcher
	gen    Generator
	opts   Options
	logger *slog.Logger
}

// New creates a pipeline Service.
func New(match Matcher, gen Generator, opts Options, logger *slog.Logger) *Service {
	if opts.TopK < 1 {
		opts.TopK = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{match: match, gen: gen, opts: opts, logger: logger}
}

// Reply is the pipeline result: the generated (or fallback) text plus the
// matched FAQ as provenance. Source is nil when no FAQ matched.
type Reply struct {
	Response string      `json:"response"`
	Source   *domain.FAQ `json:"source_faq"`
}

// Answer runs one pass of the pipeline for a user query. There are no
// retries and no backtracking; failures keep the classification assigned at
// the component boundary.
func (s *Service) Answer(ctx context.Context, queryText string) (*Reply, error) {
	matches, err := s.match.FindBestMatch(ctx, queryText, s.opts.TopK)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		s.logger.Info("no relevant FAQ found", "query_len", len(queryText))
		return &Reply{Response: NoMatchMessage}, nil
	}

	top := matches[0]
	grounding := fmt.Sprintf("Question: %s\nAnswer: %s", top.Question, top.Answer)

	text, err := s.gen.Generate(ctx, queryText, grounding)
	if err != nil {
		return nil, err
	}

	faq := top.FAQ
	return &Reply{Response: text, Source: &faq}, nil
}
