package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/config"
	"github.com/amishk599/jobfeed/internal/export"
	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/pipeline"
	"github.com/amishk599/jobfeed/internal/runlock"
)

// exitDegraded is the exit status for a degraded run under --fail-on-degraded.
const exitDegraded = 3

// runFlags holds the flags shared by the root, run and watch commands.
type runFlags struct {
	keywords       string
	results        int
	json           bool
	upload         bool
	summaryPath    string
	failOnDegraded bool
}

var flags runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, deduplicate and export once",
	Long: "Runs the pipeline once: fetch every partition, normalize, filter, deduplicate, " +
		"export to a timestamped file and, with --upload, send every posting to the upload target.",
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	addPipelineFlags(cmd)
	cmd.Flags().BoolVar(&flags.failOnDegraded, "fail-on-degraded", false, "exit with status 3 when a partition or upload record failed")
}

// addPipelineFlags registers the flags that shape a single pipeline pass.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.keywords, "keywords", config.DefaultKeywords, "search keywords")
	cmd.Flags().IntVar(&flags.results, "results", 10, "results per partition (1-50)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "export JSON instead of CSV")
	cmd.Flags().BoolVar(&flags.upload, "upload", false, "upload postings to the configured target")
	cmd.Flags().StringVar(&flags.summaryPath, "summary", "", "write the run summary as JSON to this path (- for stdout)")
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("keywords") {
		cfg.Search.Keywords = flags.keywords
	}
	if fs.Changed("results") {
		if flags.results < 1 || flags.results > 50 {
			return fmt.Errorf("--results must be between 1 and 50, got %d", flags.results)
		}
		cfg.Search.ResultsPerPage = flags.results
	}
	if flags.json {
		cfg.Export.Format = export.FormatJSON
	}
	return nil
}

// commandLogger logs to stdout unless the summary goes there, in which case
// logs move to stderr so the JSON stays parseable.
func commandLogger() *slog.Logger {
	if flags.summaryPath == "-" {
		return newLogger(os.Stderr, debug)
	}
	return setupLogger(debug)
}

// app holds everything a pipeline pass needs, plus its cleanup.
type app struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// setupApp loads config, applies flags and wires the pipeline.
func setupApp(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.RequireSearchCredentials(); err != nil {
		return nil, err
	}

	logger.Info("config loaded",
		"keywords", cfg.Search.Keywords,
		"partitions", cfg.Search.Partitions(),
		"results_per_page", cfg.Search.ResultsPerPage,
		"format", cfg.Export.Format,
		"upload", flags.upload,
	)

	a := &app{cfg: cfg}

	ledger, err := openLedger(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { ledger.Close() })

	httpClient := newHTTPClient(cfg)
	limiter := newLimiter(cfg)

	a.pipeline = pipeline.New(
		cfg.Search.Keywords,
		cfg.Search.Partitions(),
		buildFetcher(cfg, httpClient, limiter),
		buildFilter(cfg),
		ledger,
		export.NewWriter(cfg.Export.Dir, cfg.Export.Prefix, cfg.Export.Format),
		logger,
	)

	if flags.upload {
		u, closeFn, err := setupUploader(ctx, cfg, httpClient, limiter, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, closeFn)
		a.pipeline.SetUploader(u)
	}

	return a, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := commandLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setupApp(ctx, cmd, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	summary, err := runLocked(ctx, a)
	if err != nil {
		if errors.Is(err, model.ErrLocked) {
			logger.Error("another run is in progress", "dir", a.cfg.Export.Dir)
		} else {
			logger.Error("run failed", "error", err)
		}
		a.Close()
		os.Exit(1)
	}

	if err := writeSummary(flags.summaryPath, summary); err != nil {
		logger.Error("writing summary failed", "error", err)
		a.Close()
		os.Exit(1)
	}

	if flags.failOnDegraded && summary.Degraded() {
		a.Close()
		os.Exit(exitDegraded)
	}
	return nil
}

// runLocked runs one pass while holding the export directory lock.
func runLocked(ctx context.Context, a *app) (*model.RunSummary, error) {
	release, err := runlock.Acquire(a.cfg.Export.Dir)
	if err != nil {
		return nil, err
	}
	defer release()
	return a.pipeline.Run(ctx)
}

// writeSummary writes s as indented JSON to path, or to stdout for "-".
// An empty path does nothing.
func writeSummary(path string, s *model.RunSummary) error {
	if path == "" || s == nil {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}
