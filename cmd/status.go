package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hesdy24/ai-news-digest/internal/config"
	"github.com/Hesdy24/ai-news-digest/internal/digest"
	"github.com/Hesdy24/ai-news-digest/internal/health"
	"github.com/Hesdy24/ai-news-digest/internal/mail"
	"github.com/Hesdy24/ai-news-digest/internal/store"
)

var flagStatusEmail bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the health of the past week's daily stores",
	Long: `Scan the trailing seven days of daily stores and report per-day article
counts, missing days, and unreadable files. With --email the report is also
sent to the admin recipient (RECIPIENT_1).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st := store.New(cfg.DataDir)
		report := health.Check(st, time.Now(), digest.WindowDays)
		fmt.Print(report.String())

		if !flagStatusEmail {
			return nil
		}

		if err := cfg.ValidateMail(); err != nil {
			return err
		}
		admin := cfg.Recipients[config.AudienceMarketing]
		if admin == "" {
			return fmt.Errorf("no admin recipient configured: set RECIPIENT_1")
		}

		subject := fmt.Sprintf("AI News Digest - Status Report - %s", mail.FormatDate(time.Now()))
		body, err := mail.RenderReport(subject, report.String())
		if err != nil {
			return err
		}
		if err := mail.NewSMTPMailer(cfg.SMTP).Send(admin, subject, body); err != nil {
			return err
		}
		fmt.Printf("Report sent to %s.\n", admin)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&flagStatusEmail, "email", false, "email the report to the admin recipient")
}
