// Package ingest runs the daily fetch-and-persist pipeline.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/Hesdy24/ai-news-digest/internal/config"
	"github.com/Hesdy24/ai-news-digest/internal/feed"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

// Result summarizes one ingestion run.
type Result struct {
	FeedsOK     int
	FeedsFailed int
	Fetched     int
	Added       int
	Total       int // today's store size after the merge
}

// Run fetches every enabled feed in registry order and merges the collected
// articles into the day's store. A failing feed is logged and skipped; a
// store write failure is fatal because it is the run's only output.
func Run(ctx context.Context, sources []config.Source, fetcher feed.Fetcher, st *store.Store, day time.Time) (Result, error) {
	var res Result
	var collected []store.Article

	for _, src := range sources {
		slog.Info("fetching feed", "feed", src.Name, "url", src.URL)
		articles, err := fetcher.Fetch(ctx, src)
		if err != nil {
			slog.Error("feed fetch failed", "feed", src.Name, "error", err)
			res.FeedsFailed++
			continue
		}
		slog.Info("feed fetched", "feed", src.Name, "articles", len(articles))
		res.FeedsOK++
		res.Fetched += len(articles)
		collected = append(collected, articles...)
	}

	added, total, err := st.Merge(day, collected)
	if err != nil {
		return res, err
	}
	res.Added = added
	res.Total = total

	slog.Info("ingestion complete",
		"feeds_ok", res.FeedsOK,
		"feeds_failed", res.FeedsFailed,
		"fetched", res.Fetched,
		"added", res.Added,
		"total_today", res.Total,
	)
	return res, nil
}
