// Package retrieve implements the retrieval half of the pipeline: embed the
// incoming query and run a nearest-neighbor search against the FAQ store.
package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
)

// SearchTimeout bounds the vector search so one slow request cannot hold
// resources indefinitely.
const SearchTimeout = 5 * time.Second

// Embedder turns free text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher abstracts nearest-neighbor search over the FAQ store.
type Searcher interface {
	Search(ctx context.Context, vector []float32, topK int) ([]domain.Match, error)
}

// Retriever embeds queries and looks up their closest stored FAQs.
type Retriever struct {
	embed  Embedder
	search Searcher
	logger *slog.Logger
}

// New creates a Retriever.
func New(embed Embedder, search Searcher, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{embed: embed, search: search, logger: logger}
}

// FindBestMatch returns at most topK FAQ matches ordered most-similar first.
// An empty result means the store holds nothing relevant and is not an error.
// Any embedder or store communication failure wraps
// domain.ErrRetrievalUnavailable so the caller can tell "nothing relevant"
// from "system unavailable".
func (r *Retriever) FindBestMatch(ctx context.Context, queryText string, topK int) ([]domain.Match, error) {
	if err := domain.ValidateQuery(queryText); err != nil {
		return nil, err
	}
	if err := domain.ValidateTopK(topK); err != nil {
		return nil, err
	}

	vector, err := r.embed.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("retrieve: embed query: %w: %w", domain.ErrRetrievalUnavailable, err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, SearchTimeout)
	defer cancel()

	matches, err := r.search.Search(searchCtx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: search: %w: %w", domain.ErrRetrievalUnavailable, err)
	}

	r.logger.Info("retrieve done", "query_len", len(queryText), "matches", len(matches))
	return matches, nil
}
