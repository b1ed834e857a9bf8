// Package digest assembles the weekly per-audience digests and sends them.
package digest

import (
	"context"
	"log/slog"
	"time"

	"github.com/Hesdy24/ai-news-digest/internal/ai"
	"github.com/Hesdy24/ai-news-digest/internal/config"
	"github.com/Hesdy24/ai-news-digest/internal/mail"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

// WindowDays is the trailing window a weekly digest covers.
const WindowDays = 7

// Batches groups collected articles by audience, preserving store order.
type Batches map[string][]store.Article

// Collect loads the reference date and the six preceding days and
// partitions the articles by audience. Missing days are simply empty.
func Collect(st *store.Store, ref time.Time) (Batches, error) {
	articles, err := st.LoadWindow(ref, WindowDays)
	if err != nil {
		return nil, err
	}

	batches := Batches{}
	for _, a := range articles {
		batches[a.Audience] = append(batches[a.Audience], a)
	}
	return batches, nil
}

// Pipeline summarizes and mails one digest per audience.
type Pipeline struct {
	Summarizer ai.Summarizer
	Mailer     mail.Mailer
	Recipients map[string]string
}

// AudienceResult records the outcome for one audience.
type AudienceResult struct {
	Audience string
	Articles int
	Sent     bool
	Err      error
}

// Run processes every audience with a configured recipient, in the fixed
// audience order. A failure in one audience's summarization or delivery is
// recorded and does not touch the others.
func (p *Pipeline) Run(ctx context.Context, batches Batches, now time.Time) []AudienceResult {
	var results []AudienceResult

	for _, audience := range config.Audiences() {
		recipient := p.Recipients[audience]
		if recipient == "" {
			slog.Info("no recipient configured, skipping audience", "audience", audience)
			continue
		}

		articles := batches[audience]
		res := AudienceResult{Audience: audience, Articles: len(articles)}
		slog.Info("building digest", "audience", audience, "articles", len(articles))

		summary, err := p.Summarizer.Digest(ctx, audience, articles)
		if err != nil {
			slog.Error("digest generation failed", "audience", audience, "error", err)
			res.Err = err
			results = append(results, res)
			continue
		}

		email := mail.DigestEmail{
			AudienceName: ai.AudienceName(audience),
			Date:         mail.FormatDate(now),
			ArticleCount: len(articles),
			Summary:      summary,
		}
		body, err := mail.RenderDigest(email)
		if err != nil {
			slog.Error("digest rendering failed", "audience", audience, "error", err)
			res.Err = err
			results = append(results, res)
			continue
		}

		if err := p.Mailer.Send(recipient, email.Subject(), body); err != nil {
			slog.Error("digest delivery failed", "audience", audience, "error", err)
			res.Err = err
			results = append(results, res)
			continue
		}

		slog.Info("digest sent", "audience", audience, "recipient", recipient)
		res.Sent = true
		results = append(results, res)
	}

	return results
}
