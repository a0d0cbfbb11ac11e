package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"resumeagent/resume-agent/internal/client"
	"resumeagent/resume-agent/internal/uploadform"
)

var (
	jobPath    string
	resumePath string
	prompt     string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Upload once and print the response",
	Long:  "One-shot upload: sends --job, --resume and --prompt, prints the LLM output on success and exits non-zero on failure.",
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&jobPath, "job", "", "path to the job description PDF")
	submitCmd.Flags().StringVar(&resumePath, "resume", "", "path to the resume PDF")
	submitCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "free-text prompt (may be empty)")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	form := uploadform.New(client.NewHTTPUploader(cfg.Client.Endpoint, cfg.Client.Timeout))
	if err := selectPath(form, uploadform.SlotJob, jobPath); err != nil {
		return err
	}
	if err := selectPath(form, uploadform.SlotResume, resumePath); err != nil {
		return err
	}
	form.SetPrompt(prompt)

	log.Info().Str("endpoint", cfg.Client.Endpoint).Msg("📤 Submitting upload")

	state, err := form.Submit(ctx)
	if err != nil {
		return err
	}

	if state.Phase == uploadform.PhaseFailed {
		return fmt.Errorf("upload failed: %s", state.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), state.Output)
	return nil
}

func selectPath(form *uploadform.Form, slot uploadform.Slot, path string) error {
	if path == "" {
		return nil
	}

	file, err := uploadform.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open %s file: %w", slot, err)
	}

	if _, err := form.SelectFile(slot, file); err != nil {
		var ve *uploadform.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%s file %q: %w", slot, ve.Name, err)
		}
		return err
	}
	return nil
}
