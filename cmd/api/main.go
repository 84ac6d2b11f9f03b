// Package main implements the FAQ chatbot HTTP API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
	"github.com/CampusAI/faqbot-mvp/engine/rag"
	"github.com/CampusAI/faqbot-mvp/engine/respond"
	"github.com/CampusAI/faqbot-mvp/engine/retrieve"
	"github.com/CampusAI/faqbot-mvp/engine/semantic"
	"github.com/CampusAI/faqbot-mvp/pkg/metrics"
	"github.com/CampusAI/faqbot-mvp/pkg/mid"
	"github.com/CampusAI/faqbot-mvp/pkg/ollama"
)

// Config holds all environment-based configuration.
type Config struct {
	Port         string
	OllamaURL    string
	EmbedModel   string
	QdrantURL    string
	QdrantAPIKey string
	Collection   string
	DeepSeekKey  string
	DeepSeekURL  string
	ChatModel    string
	CORSOrigin   string
	MetricsPort  int
}

func loadConfig() Config {
	metricsPort, _ := strconv.Atoi(envOr("METRICS_PORT", "9090"))
	return Config{
		Port:         envOr("PORT", "8080"),
		OllamaURL:    envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:   envOr("EMBED_MODEL", ollama.DefaultModel),
		QdrantURL:    envOr("QDRANT_URL", "localhost:6334"),
		QdrantAPIKey: os.Getenv("QDRANT_API_KEY"),
		Collection:   envOr("QDRANT_COLLECTION", "college_faq"),
		DeepSeekKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekURL:  envOr("DEEPSEEK_BASE_URL", ""),
		ChatModel:    envOr("CHAT_MODEL", ""),
		CORSOrigin:   envOr("CORS_ORIGIN", "*"),
		MetricsPort:  metricsPort,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Optional .env file; process env wins.
	_ = godotenv.Load("bot.env")

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Missing credentials refuse to start; they are never a per-request error.
	if cfg.DeepSeekKey == "" {
		return errors.New("DEEPSEEK_API_KEY is required")
	}

	// --- Connect to Qdrant ---
	store, err := semantic.New(cfg.QdrantURL, cfg.Collection, cfg.QdrantAPIKey)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer store.Close()

	// --- Embedder + Retriever ---
	embedder := ollama.NewEmbedClient(cfg.OllamaURL, cfg.EmbedModel)
	retriever := retrieve.New(embedder, store, logger)

	// --- Responder ---
	respOpts := respond.DefaultOptions()
	if cfg.DeepSeekURL != "" {
		respOpts.BaseURL = cfg.DeepSeekURL
	}
	if cfg.ChatModel != "" {
		respOpts.Model = cfg.ChatModel
	}
	responder, err := respond.New(cfg.DeepSeekKey, respOpts, logger)
	if err != nil {
		return fmt.Errorf("responder: %w", err)
	}

	// --- Pipeline ---
	svc := rag.New(retriever, responder, rag.DefaultOptions(), logger)

	// --- Metrics ---
	met := metrics.New()
	met.ServeAsync(cfg.MetricsPort)

	// --- HTTP server ---
	handler := mid.Chain(newMux(svc, met, logger),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("faqbot-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// newMux registers the two exact endpoints; nothing else is routable.
func newMux(svc *rag.Service, met *metrics.Registry, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("POST /chat/{$}", handleChat(svc, met, logger))
	return mux
}

// --- Handlers ---

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "College Chatbot API is running."})
}

// ChatRequest is the JSON body for POST /chat/.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the JSON response for POST /chat/.
type ChatResponse struct {
	Response  string      `json:"response"`
	SourceFAQ *domain.FAQ `json:"source_faq"`
}

type apiError struct {
	Error string `json:"error"`
}

func handleChat(svc *rag.Service, met *metrics.Registry, logger *slog.Logger) http.HandlerFunc {
	dur := met.Histogram("faqbot_chat_duration_seconds", "End-to-end pipeline time", nil)
	requests := func(outcome string) *metrics.Counter {
		return met.Counter(metrics.WithLabels("faqbot_chat_requests_total", "outcome", outcome), "Chat requests by outcome")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requests("bad_request").Inc()
			writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
			return
		}
		if err := domain.ValidateQuery(req.Query); err != nil {
			requests("bad_request").Inc()
			writeJSON(w, http.StatusBadRequest, apiError{Error: "query is required"})
			return
		}

		start := time.Now()
		reply, err := svc.Answer(r.Context(), req.Query)
		dur.Since(start)

		if err != nil {
			status, msg, outcome := mapFailure(err)
			requests(outcome).Inc()
			logger.Error("chat pipeline failed", "outcome", outcome, "err", err)
			writeJSON(w, status, apiError{Error: msg})
			return
		}

		if reply.Source == nil {
			requests("no_match").Inc()
		} else {
			requests("ok").Inc()
		}
		writeJSON(w, http.StatusOK, ChatResponse{Response: reply.Response, SourceFAQ: reply.Source})
	}
}

// mapFailure translates a pipeline failure class into a caller-facing status
// and message. Classification happened at the component boundary; this is a
// pure mapping.
func mapFailure(err error) (status int, msg, outcome string) {
	switch {
	case errors.Is(err, domain.ErrUpstreamQuota):
		return http.StatusServiceUnavailable, "service temporarily unavailable, please try again later", "quota"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "the assistant did not respond in time", "timeout"
	case errors.Is(err, domain.ErrUpstreamGeneric):
		return http.StatusBadGateway, "error generating AI response", "upstream"
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		return http.StatusInternalServerError, "error retrieving FAQs from database", "retrieval"
	default:
		return http.StatusInternalServerError, "internal server error", "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
