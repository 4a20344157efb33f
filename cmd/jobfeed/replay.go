package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/export"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Upload a previous export",
	Long:  "Reads a CSV or JSON export, deduplicates it by URL and uploads every posting to the configured target.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if ok, missing := cfg.UploadConfigured(); !ok {
		logger.Error("upload target not configured", "target", cfg.Upload.Target, "missing", missing)
		os.Exit(1)
	}

	postings, err := export.ReadFile(args[0])
	if err != nil {
		logger.Error("failed to read export", "file", args[0], "error", err)
		os.Exit(1)
	}
	unique := export.Dedupe(postings)
	logger.Info("replaying export", "file", args[0], "postings", len(postings), "unique", len(unique))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u, closeFn, err := setupUploader(ctx, cfg, newHTTPClient(cfg), newLimiter(cfg), logger)
	if err != nil {
		logger.Error("failed to set up upload target", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	res, err := u.Upload(ctx, unique)
	if err != nil {
		logger.Error("replay aborted", "error", err)
		closeFn()
		os.Exit(1)
	}

	logger.Info("replay complete",
		"target", res.Target,
		"succeeded", res.Succeeded,
		"duplicates", res.Duplicates,
		"failed", res.Failed,
	)
	return nil
}
