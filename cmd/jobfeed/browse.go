package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/adapter"
	"github.com/amishk599/jobfeed/internal/browse"
	"github.com/amishk599/jobfeed/internal/config"
	"github.com/amishk599/jobfeed/internal/export"
	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/pipeline"
)

var browseCmd = &cobra.Command{
	Use:   "browse [file]",
	Short: "Browse postings interactively (TUI)",
	Long: "With a file argument, browses a previous CSV or JSON export. Without one, shows the " +
		"partition picker and fetches the chosen partition live.",
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if len(args) == 1 {
		postings, err := export.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", args[0], err)
			os.Exit(1)
		}
		if _, err := browse.RunBrowser(postings, buildFilter(cfg)); err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		return nil
	}

	if err := cfg.RequireSearchCredentials(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	runLiveBrowse(cfg)
	return nil
}

func runLiveBrowse(cfg *config.Config) {
	partitions := cfg.Search.Partitions()
	httpClient := newHTTPClient(cfg)
	fetcher := buildFetcher(cfg, httpClient, newLimiter(cfg))
	f := buildFilter(cfg)

	for {
		choice, err := browse.RunPartitionPicker(partitions)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if choice == "" {
			return
		}

		label := adapter.SourceLabel(choice)
		fetchFn := func(ctx context.Context) ([]model.JobPosting, error) {
			return fetcher.FetchPartition(ctx, choice)
		}
		if choice == browse.AllPartitions {
			label = "all partitions"
			fetchFn = func(ctx context.Context) ([]model.JobPosting, error) {
				postings, _ := pipeline.FetchAll(ctx, fetcher, partitions, discardLogger())
				return export.Dedupe(postings), nil
			}
		}

		postings, err := browse.RunLoader(label, cfg.HTTP.Timeout*time.Duration(len(partitions)), fetchFn)
		if err != nil {
			fmt.Printf("Error fetching %s: %v\n", label, err)
			continue
		}

		wantQuit, err := browse.RunBrowser(postings, f)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return
		}
		// back to the picker
	}
}
