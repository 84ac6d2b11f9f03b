// Command ingest recreates the FAQ collection and pushes every FAQ record
// through an embed-then-upsert pipeline. The collection is rebuilt from
// scratch on every run; stored records are immutable between runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
	"github.com/CampusAI/faqbot-mvp/engine/semantic"
	"github.com/CampusAI/faqbot-mvp/pkg/fn"
	"github.com/CampusAI/faqbot-mvp/pkg/metrics"
	"github.com/CampusAI/faqbot-mvp/pkg/ollama"
)

// vectorDims matches the all-minilm embedding model. Stored vectors and
// query vectors must come from the same model.
const vectorDims = 384

var met = metrics.New()

var (
	mIngested = met.Counter("faqbot_ingest_records_total", "FAQ records ingested")
	mErrors   = func(stage string) *metrics.Counter {
		return met.Counter(metrics.WithLabels("faqbot_ingest_errors_total", "stage", stage), "Ingestion errors by stage")
	}
	mEmbedDur = met.Histogram("faqbot_ingest_embed_duration_seconds", "Embedding call time", nil)
)

func main() {
	var (
		dataFile    = flag.String("data", "", "JSON file of {question,answer} records (default: built-in seed set)")
		ollamaURL   = flag.String("ollama", "http://localhost:11434", "Ollama base URL")
		embedModel  = flag.String("model", ollama.DefaultModel, "Ollama embedding model")
		qdrantAddr  = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection  = flag.String("collection", "college_faq", "Qdrant collection name")
		embedRate   = flag.Float64("rate", 5, "max embedding calls per second")
		metricsPort = flag.Int("metrics-port", 9091, "metrics HTTP port")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	met.ServeAsync(*metricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	faqs, err := loadFAQs(*dataFile)
	if err != nil {
		logger.Error("load FAQ data failed", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded FAQ records", "count", len(faqs))

	store, err := semantic.New(*qdrantAddr, *collection, os.Getenv("QDRANT_API_KEY"))
	if err != nil {
		logger.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.RecreateCollection(ctx, vectorDims); err != nil {
		logger.Error("recreate collection failed", "error", err)
		os.Exit(1)
	}
	logger.Info("collection recreated", "collection", *collection, "dims", vectorDims)

	embedder := ollama.NewEmbedClient(*ollamaURL, *embedModel)
	limiter := rate.NewLimiter(rate.Limit(*embedRate), 1)

	pipeline := fn.Then(
		fn.Then(validateStage, embedStage(embedder, limiter)),
		storeStage(store),
	)

	failed := 0
	for _, faq := range faqs {
		if ctx.Err() != nil {
			logger.Warn("interrupted, stopping ingestion")
			break
		}
		result := pipeline(ctx, faq)
		if result.IsErr() {
			_, err := result.Unwrap()
			logger.Error("ingest failed", "question", faq.Question, "error", err)
			failed++
			continue
		}
		mIngested.Inc()
	}

	logger.Info("ingestion done", "ingested", len(faqs)-failed, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// --- Pipeline stages ---

var validateStage fn.Stage[domain.FAQ, domain.FAQ] = fn.TracedStage("ingest.validate",
	func(_ context.Context, faq domain.FAQ) fn.Result[domain.FAQ] {
		if err := domain.ValidateQuery(faq.Question); err != nil {
			mErrors("validate").Inc()
			return fn.Err[domain.FAQ](fmt.Errorf("ingest: %w", err))
		}
		if strings.TrimSpace(faq.Answer) == "" {
			mErrors("validate").Inc()
			return fn.Errf[domain.FAQ]("ingest: empty answer for %q", faq.Question)
		}
		return fn.Ok(faq)
	})

// embedStage encodes question+answer together, the same text the original
// records were embedded from, and derives a deterministic point ID so
// re-ingestion of the same record is idempotent.
func embedStage(embedder *ollama.EmbedClient, limiter *rate.Limiter) fn.Stage[domain.FAQ, semantic.FAQPoint] {
	return fn.TracedStage("ingest.embed", func(ctx context.Context, faq domain.FAQ) fn.Result[semantic.FAQPoint] {
		if err := limiter.Wait(ctx); err != nil {
			return fn.Err[semantic.FAQPoint](fmt.Errorf("ingest: rate wait: %w", err))
		}

		start := time.Now()
		vector, err := embedder.Embed(ctx, faq.Question+" "+faq.Answer)
		mEmbedDur.Since(start)
		if err != nil {
			mErrors("embed").Inc()
			return fn.Err[semantic.FAQPoint](fmt.Errorf("ingest: embed: %w", err))
		}

		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(faq.Question)).String()
		return fn.Ok(semantic.FAQPoint{ID: id, Vector: vector, FAQ: faq})
	})
}

func storeStage(store *semantic.FAQStore) fn.Stage[semantic.FAQPoint, string] {
	return fn.TracedStage("ingest.store", func(ctx context.Context, point semantic.FAQPoint) fn.Result[string] {
		if err := store.Upsert(ctx, []semantic.FAQPoint{point}); err != nil {
			mErrors("upsert").Inc()
			return fn.Err[string](fmt.Errorf("ingest: upsert: %w", err))
		}
		return fn.Ok(point.ID)
	})
}

// loadFAQs reads records from a JSON file, or returns the seed set.
func loadFAQs(path string) ([]domain.FAQ, error) {
	if path == "" {
		return seedFAQs, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var faqs []domain.FAQ
	if err := json.Unmarshal(data, &faqs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(faqs) == 0 {
		return nil, fmt.Errorf("no FAQ records in %s", path)
	}
	return faqs, nil
}
