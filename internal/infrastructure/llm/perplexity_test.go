package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"AINewsServer/internal/config"
)

func newTestClient(t *testing.T, endpoint string, models []string) *PerplexityClient {
	t.Helper()
	return NewPerplexityClient(config.PerplexityConfig{
		Endpoint:       endpoint,
		APIKey:         "test-key",
		Models:         models,
		SystemPrompt:   "You summarize news.",
		MaxTokens:      100,
		Temperature:    0.2,
		TimeoutSeconds: 5,
	}, nil)
}

func TestSummarizeFirstModelWins(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			MaxTokens int `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "sonar" {
			t.Errorf("expected first model sonar, got %s", req.Model)
		}
		if req.MaxTokens != 100 {
			t.Errorf("expected max_tokens 100, got %d", req.MaxTokens)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Two crisp sentences."}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"sonar", "sonar-pro"})

	got := client.Summarize(context.Background(), "A long news story about many things. More detail follows.")
	if got != "Two crisp sentences." {
		t.Fatalf("unexpected summary: %q", got)
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}

func TestSummarizeFallsThroughModels(t *testing.T) {
	t.Parallel()

	var models []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)

		if req.Model == "sonar" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Backup model summary."}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"sonar", "sonar-pro"})

	got := client.Summarize(context.Background(), "Breaking story about rates.")
	if got != "Backup model summary." {
		t.Fatalf("unexpected summary: %q", got)
	}
	if len(models) != 2 || models[0] != "sonar" || models[1] != "sonar-pro" {
		t.Fatalf("unexpected model order: %v", models)
	}
}

func TestSummarizeExhaustionUsesLocalFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"sonar"})

	text := "Central bank holds rates steady. Analysts were split on the decision."
	got := client.Summarize(context.Background(), text)
	if got != "Central bank holds rates steady." {
		t.Fatalf("expected first-sentence fallback, got %q", got)
	}
}

func TestSummarizeMalformedResponseFallsBack(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"sonar"})

	got := client.Summarize(context.Background(), "Plain sentence without terminal punctuation")
	if got != "Plain sentence without terminal punctuation" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://127.0.0.1:0", []string{"sonar"})

	if got := client.Summarize(context.Background(), "   "); got != UnavailableSummary {
		t.Fatalf("expected unavailable sentinel, got %q", got)
	}
}

func TestSummarizeTruncatesInputOnRuneBoundary(t *testing.T) {
	t.Parallel()

	var sent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		for _, m := range req.Messages {
			if m.Role == "user" {
				sent = strings.TrimPrefix(m.Content, "Summarize this news in 2 sentences: ")
			}
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Summary."}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"sonar"})

	// 1802 bytes; a naive 1500-byte cut would land mid-rune.
	input := "ab" + strings.Repeat("日", 600)
	if got := client.Summarize(context.Background(), input); got != "Summary." {
		t.Fatalf("unexpected summary: %q", got)
	}

	if !utf8.ValidString(sent) {
		t.Fatalf("truncated input is not valid UTF-8: %q", sent)
	}
	want := "ab" + strings.Repeat("日", 499)
	if sent != want {
		t.Fatalf("expected %d-byte rune-aligned input, got %d bytes", len(want), len(sent))
	}
}

func TestFallbackSummary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"first sentence", "One thing happened. Then another.", "One thing happened."},
		{"question mark terminator", "Did it happen? Yes.", "Did it happen?"},
		{"no terminator", "fragment only", "fragment only"},
		{"empty", "", UnavailableSummary},
		{
			"long first sentence truncated",
			strings.Repeat("x", 200) + ". Second.",
			strings.Repeat("x", 120) + "...",
		},
		{
			"truncation lands on a rune boundary",
			"x" + strings.Repeat("é", 100),
			"x" + strings.Repeat("é", 59) + "...",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackSummary(tc.in); got != tc.want {
				t.Fatalf("FallbackSummary(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
