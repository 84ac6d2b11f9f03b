package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CampusAI/faqbot-mvp/engine/domain"
	"github.com/CampusAI/faqbot-mvp/engine/rag"
	"github.com/CampusAI/faqbot-mvp/pkg/metrics"
)

// --- pipeline fakes ---

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

func newHandler(m *fakeMatcher, g *fakeGenerator) http.HandlerFunc {
	svc := rag.New(m, g, rag.DefaultOptions(), slog.Default())
	return handleChat(svc, metrics.New(), slog.Default())
}

func postChat(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/", bytes.NewBufferString(body))
	h(rec, req)
	return rec
}

// --- tests ---

func TestRootEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	handleRoot(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["message"] == "" {
		t.Fatal("expected liveness message")
	}
}

func TestChat_OK(t *testing.T) {
	h := newHandler(
		&fakeMatcher{matches: []domain.Match{
			{FAQ: domain.FAQ{Question: "How do I apply for financial aid?", Answer: "FAFSA."}, Score: 0.9},
		}},
		&fakeGenerator{reply: "Fill out the FAFSA online."},
	)

	rec := postChat(t, h, `{"query":"How do I apply for financial aid?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "Fill out the FAFSA online." {
		t.Fatalf("unexpected response %q", resp.Response)
	}
	if resp.SourceFAQ == nil || resp.SourceFAQ.Question != "How do I apply for financial aid?" {
		t.Fatalf("expected verbatim source question, got %+v", resp.SourceFAQ)
	}
}

func TestChat_NoMatch(t *testing.T) {
	h := newHandler(&fakeMatcher{}, &fakeGenerator{reply: "unused"})

	rec := postChat(t, h, `{"query":"anything"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("no-match must be 200, got %d", rec.Code)
	}

	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != rag.NoMatchMessage {
		t.Fatalf("expected fixed fallback, got %q", resp.Response)
	}
	if resp.SourceFAQ != nil {
		t.Fatalf("expected null source_faq, got %+v", resp.SourceFAQ)
	}
}

func TestRouting_ExactPathsOnly(t *testing.T) {
	svc := rag.New(&fakeMatcher{}, &fakeGenerator{reply: "ok"}, rag.DefaultOptions(), slog.Default())
	mux := newMux(svc, metrics.New(), slog.Default())

	cases := []struct {
		method, path string
		wantStatus   int
	}{
		{"GET", "/", http.StatusOK},
		{"POST", "/chat/", http.StatusOK},
		{"POST", "/chat/anything", http.StatusNotFound},
		{"POST", "/chat/extra/deep", http.StatusNotFound},
		{"GET", "/health", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(`{"query":"q"}`))
		mux.ServeHTTP(rec, req)
		if rec.Code != tc.wantStatus {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.wantStatus, rec.Code)
		}
	}
}

func TestChat_BadRequests(t *testing.T) {
	h := newHandler(&fakeMatcher{}, &fakeGenerator{})

	if rec := postChat(t, h, "not json"); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid JSON: expected 400, got %d", rec.Code)
	}
	if rec := postChat(t, h, `{"query":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty query: expected 400, got %d", rec.Code)
	}
}

func TestChat_FailureMapping(t *testing.T) {
	match := []domain.Match{{FAQ: domain.FAQ{Question: "q", Answer: "a"}}}
	cases := []struct {
		name       string
		matcher    *fakeMatcher
		generator  *fakeGenerator
		wantStatus int
	}{
		{
			"retrieval unavailable",
			&fakeMatcher{err: fmt.Errorf("retrieve: %w: conn refused", domain.ErrRetrievalUnavailable)},
			&fakeGenerator{},
			http.StatusInternalServerError,
		},
		{
			"quota maps to 503",
			&fakeMatcher{matches: match},
			&fakeGenerator{err: fmt.Errorf("respond: %w: insufficient balance", domain.ErrUpstreamQuota)},
			http.StatusServiceUnavailable,
		},
		{
			"timeout maps to 504",
			&fakeMatcher{matches: match},
			&fakeGenerator{err: fmt.Errorf("respond: %w after 10s", domain.ErrUpstreamTimeout)},
			http.StatusGatewayTimeout,
		},
		{
			"generic upstream maps to 502",
			&fakeMatcher{matches: match},
			&fakeGenerator{err: &domain.UpstreamError{Status: 500, Body: "overloaded"}},
			http.StatusBadGateway,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandler(tc.matcher, tc.generator)
			rec := postChat(t, h, `{"query":"anything"}`)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Collection != "college_faq" {
		t.Fatalf("expected default collection college_faq, got %s", cfg.Collection)
	}
	if cfg.CORSOrigin != "*" {
		t.Fatalf("expected default CORS *, got %s", cfg.CORSOrigin)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("FAQBOT_TEST_VAR", "custom")
	if v := envOr("FAQBOT_TEST_VAR", "default"); v != "custom" {
		t.Fatalf("expected custom, got %s", v)
	}
	if v := envOr("FAQBOT_MISSING_VAR", "fallback"); v != "fallback" {
		t.Fatalf("expected fallback, got %s", v)
	}
}

func TestRun_MissingCredentialIsFatal(t *testing.T) {
	cfg := loadConfig()
	cfg.DeepSeekKey = ""
	if err := run(cfg, slog.Default()); err == nil {
		t.Fatal("missing hosted-model credential must refuse to start")
	}
}
