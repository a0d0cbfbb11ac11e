package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"resumeagent/resume-agent/internal/client"
	"resumeagent/resume-agent/internal/tui"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive upload form",
	RunE:  runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	// The form owns the terminal, so logs only go to --log-file.
	closeLog, err := setupLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("endpoint", cfg.Client.Endpoint).Dur("timeout", cfg.Client.Timeout).Msg("🚀 Opening upload form")

	uploader := client.NewHTTPUploader(cfg.Client.Endpoint, cfg.Client.Timeout)
	return tui.Run(ctx, uploader, uploader.Endpoint())
}
