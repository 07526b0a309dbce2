package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"AINewsServer/internal/config"
	"AINewsServer/internal/ports"
)

const (
	// maxInputChars bounds the text sent upstream to stay within the
	// provider's prompt limits.
	maxInputChars = 1500

	// fallbackMaxChars bounds the locally generated first-sentence summary.
	fallbackMaxChars = 120

	// UnavailableSummary is returned when there is no text to summarize at all.
	UnavailableSummary = "AI summary not available for this article."
)

// PerplexityClient implements ports.Summarizer against the Perplexity
// chat-completions API with an ordered model fallback chain.
type PerplexityClient struct {
	endpoint     string
	apiKey       string
	models       []string
	systemPrompt string
	maxTokens    int
	temperature  float64
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ ports.Summarizer = (*PerplexityClient)(nil)

// NewPerplexityClient builds a client from configuration.
func NewPerplexityClient(cfg config.PerplexityConfig, logger *slog.Logger) *PerplexityClient {
	return &PerplexityClient{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		models:       cfg.Models,
		systemPrompt: cfg.SystemPrompt,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: logger,
	}
}

// Summarize tries each configured model in order and returns the first
// well-formed summary. Exhaustion of the chain falls back to a local
// first-sentence summary, so the result is always usable.
func (c *PerplexityClient) Summarize(ctx context.Context, text string) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return UnavailableSummary
	}
	clean = truncate(clean, maxInputChars)

	for _, model := range c.models {
		summary, err := c.complete(ctx, model, clean)
		if err != nil {
			c.warn("model attempt failed", "model", model, "error", err)
			continue
		}
		return summary
	}

	return FallbackSummary(text)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *PerplexityClient) complete(ctx context.Context, model, text string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return "", fmt.Errorf("perplexity client misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: "Summarize this news in 2 sentences: " + text},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("perplexity error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Choices) == 0 || payload.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("unexpected response shape from model %s", model)
	}

	return payload.Choices[0].Message.Content, nil
}

func (c *PerplexityClient) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

// FallbackSummary derives a deterministic local summary: the first sentence,
// truncated with an ellipsis when it exceeds the cap.
func FallbackSummary(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return UnavailableSummary
	}

	first := text
	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		first = strings.TrimSpace(text[:idx+1])
	}

	if len(first) > fallbackMaxChars {
		return truncate(first, fallbackMaxChars) + "..."
	}
	return first
}

// truncate bounds s to at most max bytes, backing up so a multi-byte rune
// is never split.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
