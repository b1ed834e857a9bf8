package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Hesdy24/ai-news-digest/internal/config"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

// Some feed hosts reject default Go user agents.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher retrieves and parses one feed into canonical articles.
type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]store.Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	now    func() time.Time
}

func NewRSSFetcher() *RSSFetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: 10 * time.Second}
	p.UserAgent = userAgent
	return &RSSFetcher{parser: p, now: time.Now}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]store.Article, error) {
	parsed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	articles := make([]store.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a := normalize(item, source, f.now())
		if a.Title == "" || a.Link == "" {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// normalize maps a feed entry onto the persisted article shape. Published
// time falls back to the updated time, then the fetch time.
func normalize(item *gofeed.Item, source config.Source, now time.Time) store.Article {
	ts := now
	if item.PublishedParsed != nil {
		ts = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		ts = *item.UpdatedParsed
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	return store.Article{
		Title:     cleanText(item.Title),
		Summary:   cleanText(summary),
		Link:      strings.TrimSpace(item.Link),
		Source:    source.Name,
		Audience:  source.Audience,
		Timestamp: ts.Format(time.RFC3339),
	}
}

// cleanText strips HTML tags and collapses whitespace.
func cleanText(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
