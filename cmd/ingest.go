package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hesdy24/ai-news-digest/internal/config"
	"github.com/Hesdy24/ai-news-digest/internal/feed"
	"github.com/Hesdy24/ai-news-digest/internal/ingest"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch all subscribed feeds into today's daily store",
	Long: `Fetch and parse every enabled feed, normalize the entries, and merge
them into today's per-day JSON store. Articles whose link is already present
in the store are skipped, so re-running within the same day is safe.

Individual feed failures are logged and do not fail the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st := store.New(cfg.DataDir)
		res, err := ingest.Run(cmd.Context(), cfg.EnabledSources(), feed.NewRSSFetcher(), st, time.Now())
		if err != nil {
			return fmt.Errorf("persisting articles: %w", err)
		}

		fmt.Printf("Fetched %d feed(s) (%d failed), added %d article(s), %d stored today.\n",
			res.FeedsOK, res.FeedsFailed, res.Added, res.Total)
		return nil
	},
}

// loadConfig loads the process configuration and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagFeeds)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	return cfg, nil
}
