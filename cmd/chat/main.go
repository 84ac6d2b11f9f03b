// Package main implements the interactive terminal front end for the FAQ
// chatbot. It shares the retrieval-then-generation pipeline with cmd/api.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
	"github.com/CampusAI/faqbot-mvp/engine/rag"
	"github.com/CampusAI/faqbot-mvp/engine/respond"
	"github.com/CampusAI/faqbot-mvp/engine/retrieve"
	"github.com/CampusAI/faqbot-mvp/engine/semantic"
	"github.com/CampusAI/faqbot-mvp/pkg/ollama"
)

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	_ = godotenv.Load("bot.env")

	if err := run(logger); err != nil {
		logger.Error("chatbot exited with error", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		return errors.New("DEEPSEEK_API_KEY is required")
	}

	store, err := semantic.New(
		envOr("QDRANT_URL", "localhost:6334"),
		envOr("QDRANT_COLLECTION", "college_faq"),
		os.Getenv("QDRANT_API_KEY"),
	)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer store.Close()

	embedder := ollama.NewEmbedClient(
		envOr("OLLAMA_URL", "http://localhost:11434"),
		envOr("EMBED_MODEL", ollama.DefaultModel),
	)
	retriever := retrieve.New(embedder, store, logger)

	respOpts := respond.DefaultOptions()
	if v := os.Getenv("DEEPSEEK_BASE_URL"); v != "" {
		respOpts.BaseURL = v
	}
	if v := os.Getenv("CHAT_MODEL"); v != "" {
		respOpts.Model = v
	}
	responder, err := respond.New(apiKey, respOpts, logger)
	if err != nil {
		return fmt.Errorf("responder: %w", err)
	}

	svc := rag.New(retriever, responder, rag.DefaultOptions(), logger)

	return chatLoop(ctx, svc, os.Stdin, os.Stdout, logger)
}

// chatLoop drives the read-eval loop. Input is read on its own goroutine so
// an interrupt takes effect immediately, even while the reader is blocked
// waiting for the next line.
func chatLoop(ctx context.Context, svc *rag.Service, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	fmt.Fprintln(out, "--- College Chatbot ---")
	fmt.Fprintln(out, "Type your questions about the college. Type 'exit' to quit.")

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(out, "\nYou: ")

		var line string
		var open bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting chatbot.")
			return nil
		case line, open = <-lines:
		}
		if !open {
			if err := <-readErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(out, "\nExiting chatbot.")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			fmt.Fprintln(out, "Chatbot: Goodbye!")
			return nil
		}

		reply, err := svc.Answer(ctx, input)
		if err != nil {
			fmt.Fprintf(out, "Chatbot: %s\n", friendly(err))
			logger.Warn("pipeline failed", "err", err)
			continue
		}
		fmt.Fprintf(out, "Chatbot: %s\n", reply.Response)
	}
}

// friendly turns a classified pipeline failure into a user-facing message.
func friendly(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamQuota):
		return "The AI service is temporarily unavailable. Please try again later."
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return "The AI took too long to respond. Please try again."
	case errors.Is(err, domain.ErrUpstreamGeneric):
		return "I'm having trouble connecting to the AI. Please try again later."
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		return "I'm having trouble reaching the FAQ database. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}
