package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
	"github.com/CampusAI/faqbot-mvp/engine/rag"
)

type fakeMatcher struct {
	matches []domain.Match
	err     error
}

func (f *fakeMatcher) FindBestMatch(_ context.Context, _ string, _ int) ([]domain.Match, error) {
	return f.matches, f.err
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func newService(m *fakeMatcher, g *fakeGenerator) *rag.Service {
	return rag.New(m, g, rag.DefaultOptions(), nil)
}

func TestChatLoop_AnswersThenExits(t *testing.T) {
	svc := newService(
		&fakeMatcher{matches: []domain.Match{
			{FAQ: domain.FAQ{Question: "Is there a library?", Answer: "Yes."}},
		}},
		&fakeGenerator{reply: "Yes, the library is open daily."},
	)

	var out bytes.Buffer
	in := strings.NewReader("Is there a library?\nexit\n")
	if err := chatLoop(context.Background(), svc, in, &out, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Yes, the library is open daily.") {
		t.Fatalf("reply missing from output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Fatalf("exit sentinel must say goodbye:\n%s", out.String())
	}
}

func TestChatLoop_SkipsBlankLines(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	svc := newService(&fakeMatcher{}, gen)

	var out bytes.Buffer
	in := strings.NewReader("\n   \nEXIT\n")
	if err := chatLoop(context.Background(), svc, in, &out, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out.String(), "Chatbot:") != 1 {
		t.Fatalf("blank lines must not produce replies:\n%s", out.String())
	}
}

func TestChatLoop_EOFExitsCleanly(t *testing.T) {
	svc := newService(&fakeMatcher{}, &fakeGenerator{})

	var out bytes.Buffer
	if err := chatLoop(context.Background(), svc, strings.NewReader(""), &out, nil); err != nil {
		t.Fatalf("EOF must exit cleanly: %v", err)
	}
	if !strings.Contains(out.String(), "Exiting chatbot.") {
		t.Fatalf("missing exit message:\n%s", out.String())
	}
}

func TestChatLoop_InterruptWhileBlockedOnInput(t *testing.T) {
	svc := newService(&fakeMatcher{}, &fakeGenerator{})

	// A pipe with no writer keeps the reader blocked forever.
	pr, _ := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	var out bytes.Buffer
	go func() { done <- chatLoop(ctx, svc, pr, &out, nil) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop must return promptly on interrupt while input is blocked")
	}
}

func TestFriendly(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("respond: %w: balance", domain.ErrUpstreamQuota), "temporarily unavailable"},
		{fmt.Errorf("respond: %w after 10s", domain.ErrUpstreamTimeout), "too long"},
		{&domain.UpstreamError{Status: 500, Body: "x"}, "trouble connecting to the AI"},
		{fmt.Errorf("retrieve: %w: refused", domain.ErrRetrievalUnavailable), "FAQ database"},
		{errors.New("unknown"), "Something went wrong"},
	}

	for _, tc := range cases {
		got := friendly(tc.err)
		if !strings.Contains(got, tc.want) {
			t.Errorf("friendly(%v) = %q, want substring %q", tc.err, got, tc.want)
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("CHAT_TEST_VAR", "set")
	if envOr("CHAT_TEST_VAR", "d") != "set" {
		t.Fatal("expected env value")
	}
	if envOr("CHAT_TEST_MISSING", "d") != "d" {
		t.Fatal("expected default")
	}
}
