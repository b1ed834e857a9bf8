// Package ai generates audience digests via an external language model.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Hesdy24/ai-news-digest/internal/config"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

// EmptyDigest is returned for an audience with no collected articles. No
// model call is made in that case.
const EmptyDigest = "No articles were collected for this week's digest."

// Summarizer turns an audience's weekly article batch into digest text.
type Summarizer interface {
	Digest(ctx context.Context, audience string, articles []store.Article) (string, error)
}

// New creates a Summarizer from the given AI config.
func New(cfg config.AIConfig) (Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}

	client := &http.Client{Timeout: 60 * time.Second}

	switch cfg.Provider {
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &openaiProvider{apiKey: cfg.APIKey, model: model, client: client}, nil
	case "claude":
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return &claudeProvider{apiKey: cfg.APIKey, model: model, client: client}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: openai, claude)", cfg.Provider)
	}
}

// profile describes the reader a digest is written for.
type profile struct {
	Name      string
	Interests string
	Focus     string
}

var profiles = map[string]profile{
	config.AudienceMarketing: {
		Name:      "Marketing & SEO Professional",
		Interests: "AI for marketing, AI for SEO/SEA, process automation, Google vs AI and search updates",
		Focus:     "Focus on practical applications of AI in marketing and SEO, and on new tools and trends that are directly usable.",
	},
	config.AudienceCompliance: {
		Name:      "AI Compliance & Ethics Professional",
		Interests: "AI compliance, ethics, legislation such as the EU AI Act, complaint committees, freelancers and AI, transparency and bias in AI",
		Focus:     "Focus on regulation, ethical considerations, compliance challenges and the societal impact of AI.",
	},
}

// AudienceName returns the display name for an audience identifier.
func AudienceName(audience string) string {
	if p, ok := profiles[audience]; ok {
		return p.Name
	}
	return audience
}

const systemPrompt = "You are an experienced news summarizer who makes complex AI developments accessible to professionals."

const digestPromptTemplate = `You write a weekly AI news digest for a %s.

Interests: %s
%s

Here are the articles from the past week:

%s

Write a summary of at most 250 words with this structure:

1. **Intro** (1-2 sentences): what is the overall trend this week?
2. **Highlights** (3-4 points): the most important developments
3. **Reading tip**: the most interesting article for this audience

Write in a professional but accessible style, focused on what matters to a %s.`

const (
	maxPromptArticles = 20
	maxSummaryExcerpt = 200
)

// digestPrompt renders the user prompt for a batch. The batch is capped and
// each article summary truncated to keep the request inside token limits.
func digestPrompt(audience string, articles []store.Article) string {
	p := profiles[audience]

	if len(articles) > maxPromptArticles {
		articles = articles[:maxPromptArticles]
	}

	var sb strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, a.Title)
		fmt.Fprintf(&sb, "   Source: %s\n", a.Source)
		fmt.Fprintf(&sb, "   Summary: %s\n\n", truncate(a.Summary, maxSummaryExcerpt))
	}

	return fmt.Sprintf(digestPromptTemplate, p.Name, p.Interests, p.Focus, sb.String(), p.Name)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// --- OpenAI provider ---

type openaiProvider struct {
	apiKey string
	model  string
	client *http.Client
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *openaiProvider) Digest(ctx context.Context, audience string, articles []store.Article) (string, error) {
	if len(articles) == 0 {
		return EmptyDigest, nil
	}

	body, _ := json.Marshal(openaiRequest{
		Model: o.model,
		Messages: []openaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: digestPrompt(audience, articles)},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai API %d: %s", resp.StatusCode, string(b))
	}

	var or openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", err
	}
	if len(or.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return strings.TrimSpace(or.Choices[0].Message.Content), nil
}

// --- Claude provider ---

type claudeProvider struct {
	apiKey string
	model  string
	client *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claudeProvider) Digest(ctx context.Context, audience string, articles []store.Article) (string, error) {
	if len(articles) == 0 {
		return EmptyDigest, nil
	}

	body, _ := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 500,
		System:    systemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: digestPrompt(audience, articles)}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("claude API %d: %s", resp.StatusCode, string(b))
	}

	var cr claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Content) == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return strings.TrimSpace(cr.Content[0].Text), nil
}
