package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hesdy24/ai-news-digest/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagFeeds    string
	flagDataDir  string
	flagLogLevel string
	flagLogFile  string
)

var rootCmd = &cobra.Command{
	Use:   "ai-news-digest",
	Short: "Scheduled AI news aggregation and weekly email digests",
	Long: `ai-news-digest collects articles from subscribed RSS/Atom feeds into
per-day JSON stores and, on a weekly cadence, summarizes the collected week
per audience and emails the digest to its recipient.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Setup(flagLogLevel, flagLogFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFeeds, "feeds", "", "path to a feed registry YAML (default: built-in subscriptions)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the per-day article stores")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "append logs to this file in addition to stderr")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ai-news-digest %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
