package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/adapter"
)

var partitionsCmd = &cobra.Command{
	Use:   "partitions",
	Short: "Show which partitions a run queries",
	Long:  "Prints the target region, the proxy region mapping and the resolved partition list.",
	RunE:  runPartitions,
}

func init() {
	rootCmd.AddCommand(partitionsCmd)
}

func runPartitions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Target region: %s\n", cfg.Search.TargetRegion)
	if len(cfg.Search.ProxyRegions) > 0 {
		fmt.Println("\nProxy regions:")
		targets := make([]string, 0, len(cfg.Search.ProxyRegions))
		for t := range cfg.Search.ProxyRegions {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			fmt.Printf("  %-6s → %s\n", t, strings.Join(cfg.Search.ProxyRegions[t], ", "))
		}
	}

	fmt.Printf("\n%-10s %s\n", "Partition", "Source")
	fmt.Println(strings.Repeat("─", 30))
	parts := cfg.Search.Partitions()
	for _, p := range parts {
		fmt.Printf("%-10s %s\n", p, adapter.SourceLabel(p))
	}
	fmt.Printf("\nTotal: %d partition(s)\n", len(parts))
	return nil
}
