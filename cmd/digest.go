package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hesdy24/ai-news-digest/internal/ai"
	"github.com/Hesdy24/ai-news-digest/internal/digest"
	"github.com/Hesdy24/ai-news-digest/internal/mail"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

var flagDigestDate string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Summarize the past week and email each audience its digest",
	Long: `Load the trailing seven days of daily stores, partition the collected
articles by audience, summarize each audience's batch with the configured
language model, and email the result to the audience's recipient.

A failure for one audience is logged and does not block the other.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateDigest(); err != nil {
			return err
		}

		ref := time.Now()
		if flagDigestDate != "" {
			ref, err = time.Parse(store.DateLayout, flagDigestDate)
			if err != nil {
				return fmt.Errorf("invalid --date value (want YYYY-MM-DD): %w", err)
			}
		}

		summarizer, err := ai.New(cfg.AI)
		if err != nil {
			return fmt.Errorf("configuring summarizer: %w", err)
		}

		st := store.New(cfg.DataDir)
		batches, err := digest.Collect(st, ref)
		if err != nil {
			return fmt.Errorf("collecting articles: %w", err)
		}

		pipeline := &digest.Pipeline{
			Summarizer: summarizer,
			Mailer:     mail.NewSMTPMailer(cfg.SMTP),
			Recipients: cfg.Recipients,
		}

		for _, res := range pipeline.Run(cmd.Context(), batches, ref) {
			if res.Err != nil {
				fmt.Printf("%s: failed (%v)\n", res.Audience, res.Err)
			} else {
				fmt.Printf("%s: digest of %d article(s) sent.\n", res.Audience, res.Articles)
			}
		}
		return nil
	},
}

func init() {
	digestCmd.Flags().StringVar(&flagDigestDate, "date", "", "reference date for the 7-day window (YYYY-MM-DD, default today)")
}
