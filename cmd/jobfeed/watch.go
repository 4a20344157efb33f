package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/scheduler"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on an interval",
	Long:  "Runs the pipeline immediately and then every watch.interval; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	addPipelineFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "override watch.interval from the config")
	rootCmd.AddCommand(watchCmd)
}

// lockedRunner takes the export directory lock around every pass.
type lockedRunner struct {
	app *app
}

func (r lockedRunner) Run(ctx context.Context) (*model.RunSummary, error) {
	return runLocked(ctx, r.app)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := commandLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setupApp(ctx, cmd, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	interval := a.cfg.Watch.Interval
	if watchInterval > 0 {
		interval = watchInterval
	}

	onSummary := func(s *model.RunSummary) {
		if err := writeSummary(flags.summaryPath, s); err != nil {
			logger.Error("writing summary failed", "error", err)
		}
	}

	sched := scheduler.NewScheduler(lockedRunner{app: a}, interval, onSummary, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("watch error", "error", err)
		a.Close()
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
