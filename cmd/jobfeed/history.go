package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/model"
)

var (
	historyLimit int
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the ledger",
	Long:  "Prints the most recent runs recorded in the SQLite ledger. --prune forgets URLs first seen longer ago than the given age.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "forget URLs first seen longer ago than this (e.g. 720h)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Ledger.Enabled {
		fmt.Println("Ledger is disabled (ledger.enabled: false).")
		return nil
	}

	ledger, err := openLedger(cfg, discardLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer ledger.Close()

	if historyPrune > 0 {
		n, err := ledger.Cleanup(historyPrune)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			ledger.Close()
			os.Exit(1)
		}
		fmt.Printf("Forgot %d URLs first seen more than %s ago.\n\n", n, historyPrune)
	}

	runs, err := ledger.RecentRuns(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		ledger.Close()
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("%-20s %-8s %-8s %-7s %-5s %-12s %s\n", "Started", "Fetched", "Unique", "New", "Fail", "Upload", "File")
	fmt.Println(strings.Repeat("─", 90))
	for _, r := range runs {
		fmt.Printf("%-20s %-8d %-8d %-7d %-5d %-12s %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Fetched, r.Unique, r.New, r.FailedPartitions(),
			uploadColumn(r.Upload), r.OutputFile,
		)
	}
	fmt.Printf("\nShowing %d run(s)\n", len(runs))
	return nil
}

// uploadColumn renders an upload result as succeeded/duplicates/failed.
func uploadColumn(u *model.UploadResult) string {
	switch {
	case u == nil:
		return "-"
	case u.Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("%d/%d/%d", u.Succeeded, u.Duplicates, u.Failed)
	}
}
