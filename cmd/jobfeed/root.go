package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/adapter"
	"github.com/amishk599/jobfeed/internal/config"
	"github.com/amishk599/jobfeed/internal/filter"
	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/ratelimit"
	"github.com/amishk599/jobfeed/internal/store"
	"github.com/amishk599/jobfeed/internal/upload"
)

const defaultConfigPath = "jobfeed.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobfeed",
	Short: "Aggregate job postings into a deduplicated export",
	Long: "jobfeed queries the Adzuna search API once per configured partition, normalizes and " +
		"deduplicates the postings, writes a timestamped CSV or JSON file and optionally " +
		"uploads every posting to a REST table or Postgres.",
	// `jobfeed` with no subcommand performs a single run.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBFEED_CONFIG env var or ./jobfeed.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addRunFlags(rootCmd)
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > JOBFEED_CONFIG env var > "./jobfeed.yaml".
// A missing default file yields the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	explicit := true
	if path == "" {
		if env := os.Getenv("JOBFEED_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
			explicit = false
		}
	}

	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Parse(nil)
	}
	return cfg, err
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTP.Timeout}
}

func newLimiter(cfg *config.Config) *ratelimit.HostLimiter {
	return ratelimit.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
}

func buildFilter(cfg *config.Config) model.JobFilter {
	f := filter.NewTitleAndLocationFilter(
		cfg.Filters.TitleKeywords,
		cfg.Filters.TitleExcludeKeywords,
		cfg.Filters.Locations,
		cfg.Filters.ExcludeLocations,
	)
	if f.Empty() {
		return nil
	}
	return f
}

// buildFetcher returns the Adzuna fetcher wrapped with per-host pacing.
func buildFetcher(cfg *config.Config, httpClient *http.Client, limiter *ratelimit.HostLimiter) model.PartitionFetcher {
	a := adapter.NewAdzunaAdapter(cfg.Search, httpClient)
	return ratelimit.NewRateLimitedFetcher(a, limiter, cfg.Search.BaseURL)
}

// ledgerStore is the ledger plus the maintenance methods the CLI needs.
type ledgerStore interface {
	model.Ledger
	Cleanup(olderThan time.Duration) (int64, error)
	Close() error
}

func openLedger(cfg *config.Config, logger *slog.Logger) (ledgerStore, error) {
	if !cfg.Ledger.Enabled {
		logger.Debug("ledger disabled")
		return store.NewNopStore(), nil
	}
	s, err := store.NewSQLiteStore(cfg.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", cfg.Ledger.Path, err)
	}
	return s, nil
}

// setupUploader builds the configured upload target. When the target is
// missing its credentials a SkipUploader is returned so the run records the
// skip. The returned close func is never nil.
func setupUploader(ctx context.Context, cfg *config.Config, httpClient *http.Client, limiter *ratelimit.HostLimiter, logger *slog.Logger) (model.Uploader, func(), error) {
	nop := func() {}

	if ok, missing := cfg.UploadConfigured(); !ok {
		return upload.NewSkipUploader(cfg.Upload.Target, missing, logger), nop, nil
	}

	switch cfg.Upload.Target {
	case "postgres":
		u, err := upload.NewPostgresUploader(ctx, cfg.Upload.DSN, cfg.Upload.Table, logger)
		if err != nil {
			return nil, nop, err
		}
		logger.Info("using postgres upload target", "table", cfg.Upload.Table)
		return u, u.Close, nil
	case "log":
		logger.Info("using log upload target")
		return upload.NewLogUploader(logger), nop, nil
	default:
		u := upload.NewRESTUploader(cfg.Upload.Endpoint(), cfg.Upload.APIKey, httpClient, logger)
		u.SetLimiter(limiter)
		logger.Info("using rest upload target", "endpoint", cfg.Upload.Endpoint())
		return u, nop, nil
	}
}
