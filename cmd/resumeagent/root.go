package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"resumeagent/resume-agent/internal/config"
	"resumeagent/resume-agent/internal/logger"
)

var (
	endpoint string
	timeout  time.Duration
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "resumeagent",
	Short: "Send a job description and a resume to the resume agent",
	Long:  "resumeagent uploads a job PDF, a resume PDF and a prompt to the /upload endpoint and shows the LLM response.",
	// No subcommand opens the interactive form.
	RunE:         runForm,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "upload endpoint (default: UPLOAD_ENDPOINT env var or http://localhost:8000/upload)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout, 0 waits forever (default: UPLOAD_TIMEOUT env var)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default: LOG_LEVEL env var)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file")
}

// loadConfig applies command line flags on top of the environment.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Client.Timeout = timeout
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg
}

// setupLogger points the global logger at --log-file, or at fallback when no
// file was given. The returned func closes the file.
func setupLogger(cfg *config.Config, fallback io.Writer) (func(), error) {
	if logFile == "" {
		if fallback == nil {
			logger.Discard()
			return func() {}, nil
		}
		logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: fallback})
		return func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: "json", Output: f})
	return func() { f.Close() }, nil
}
