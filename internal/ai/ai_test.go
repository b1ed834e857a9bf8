package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Hesdy24/ai-news-digest/internal/config"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func countingClient(calls *int, body string) *http.Client {
	return &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		*calls++
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	})}
}

func batch(n int) []store.Article {
	var out []store.Article
	for i := 0; i < n; i++ {
		out = append(out, store.Article{
			Title:     fmt.Sprintf("Post %d", i+1),
			Summary:   "A summary",
			Link:      fmt.Sprintf("https://example.com/%d", i+1),
			Source:    "Feed",
			Audience:  config.AudienceMarketing,
			Timestamp: "2025-01-06T08:00:00Z",
		})
	}
	return out
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(config.AIConfig{Provider: "watson", APIKey: "k"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewMissingKey(t *testing.T) {
	if _, err := New(config.AIConfig{Provider: "openai"}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestEmptyBatchSkipsModelCall(t *testing.T) {
	var calls int
	providers := []Summarizer{
		&openaiProvider{apiKey: "k", model: "m", client: countingClient(&calls, "{}")},
		&claudeProvider{apiKey: "k", model: "m", client: countingClient(&calls, "{}")},
	}

	for _, p := range providers {
		text, err := p.Digest(context.Background(), config.AudienceCompliance, nil)
		if err != nil {
			t.Fatalf("empty batch: %v", err)
		}
		if text != EmptyDigest {
			t.Errorf("expected fixed no-news text, got %q", text)
		}
	}
	if calls != 0 {
		t.Errorf("expected no HTTP calls for empty batches, got %d", calls)
	}
}

func TestOpenAIDigest(t *testing.T) {
	var calls int
	body := `{"choices":[{"message":{"content":" Weekly digest text. "}}]}`
	p := &openaiProvider{apiKey: "k", model: "gpt-4o-mini", client: countingClient(&calls, body)}

	text, err := p.Digest(context.Background(), config.AudienceMarketing, batch(3))
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if text != "Weekly digest text." {
		t.Errorf("expected trimmed digest text, got %q", text)
	}
	if calls != 1 {
		t.Errorf("expected 1 HTTP call, got %d", calls)
	}
}

func TestClaudeDigest(t *testing.T) {
	var calls int
	body := `{"content":[{"text":"Weekly digest text."}]}`
	p := &claudeProvider{apiKey: "k", model: "m", client: countingClient(&calls, body)}

	text, err := p.Digest(context.Background(), config.AudienceMarketing, batch(3))
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if text != "Weekly digest text." {
		t.Errorf("unexpected digest text %q", text)
	}
}

func TestOpenAIDigestErrorStatus(t *testing.T) {
	client := &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader(`{"error":"rate limited"}`)),
		}, nil
	})}
	p := &openaiProvider{apiKey: "k", model: "m", client: client}

	if _, err := p.Digest(context.Background(), config.AudienceMarketing, batch(1)); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestDigestPromptCapsArticles(t *testing.T) {
	prompt := digestPrompt(config.AudienceMarketing, batch(30))
	if !strings.Contains(prompt, "20. Post 20") {
		t.Error("expected the 20th article in the prompt")
	}
	if strings.Contains(prompt, "21. Post 21") {
		t.Error("expected the prompt capped at 20 articles")
	}
}

func TestDigestPromptMentionsProfile(t *testing.T) {
	prompt := digestPrompt(config.AudienceCompliance, batch(1))
	if !strings.Contains(prompt, "AI Compliance & Ethics Professional") {
		t.Error("expected the audience profile name in the prompt")
	}
	if !strings.Contains(prompt, "EU AI Act") {
		t.Error("expected the audience interests in the prompt")
	}
}

func TestDigestPromptTruncatesSummaries(t *testing.T) {
	long := strings.Repeat("x", 500)
	articles := batch(1)
	articles[0].Summary = long

	prompt := digestPrompt(config.AudienceMarketing, articles)
	if strings.Contains(prompt, long) {
		t.Error("expected long summaries truncated in the prompt")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 197)+"...") {
		t.Error("expected truncation marker in the prompt")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestAudienceName(t *testing.T) {
	if AudienceName(config.AudienceMarketing) != "Marketing & SEO Professional" {
		t.Error("unexpected name for audience_1")
	}
	if AudienceName("audience_9") != "audience_9" {
		t.Error("unknown audiences should fall back to the identifier")
	}
}
