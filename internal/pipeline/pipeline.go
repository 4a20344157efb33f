package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobfeed/internal/adapter"
	"github.com/amishk599/jobfeed/internal/export"
	"github.com/amishk599/jobfeed/internal/model"
)

// Exporter writes the deduplicated postings and returns the file it wrote.
type Exporter interface {
	Write(postings []model.JobPosting) (string, error)
}

// Pipeline owns one full run: fetch every partition, filter, dedupe,
// export, remember, and optionally upload.
type Pipeline struct {
	keywords   string
	partitions []string
	fetcher    model.PartitionFetcher
	filter     model.JobFilter
	ledger     model.Ledger
	exporter   Exporter
	uploader   model.Uploader
	logger     *slog.Logger

	now   func() time.Time
	newID func() string
}

// New creates a pipeline wired with all its required dependencies. A nil
// filter accepts every posting.
func New(
	keywords string,
	partitions []string,
	fetcher model.PartitionFetcher,
	filter model.JobFilter,
	ledger model.Ledger,
	exporter Exporter,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		keywords:   keywords,
		partitions: partitions,
		fetcher:    fetcher,
		filter:     filter,
		ledger:     ledger,
		exporter:   exporter,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// SetUploader enables the upload stage. Passing nil disables it.
func (p *Pipeline) SetUploader(u model.Uploader) {
	p.uploader = u
}

// Run executes one pass. Partition and per-record upload failures are
// recorded in the summary; only export failure and cancellation are
// returned as errors.
func (p *Pipeline) Run(ctx context.Context) (*model.RunSummary, error) {
	summary := &model.RunSummary{
		RunID:     p.newID(),
		StartedAt: p.now(),
		Keywords:  p.keywords,
	}
	log := p.logger.With("run_id", summary.RunID)
	log.Info("starting run", "keywords", p.keywords, "partitions", len(p.partitions))

	fetched, reports := FetchAll(ctx, p.fetcher, p.partitions, log)
	summary.Partitions = reports
	summary.Fetched = len(fetched)
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run %s cancelled: %w", summary.RunID, err)
	}

	matched := fetched
	if p.filter != nil {
		matched = matched[:0:0]
		for _, job := range fetched {
			if p.filter.Match(job) {
				matched = append(matched, job)
			}
		}
	}
	summary.FilteredOut = len(fetched) - len(matched)

	unique := export.Dedupe(matched)
	summary.Unique = len(unique)

	file, err := p.exporter.Write(unique)
	if err != nil {
		summary.FinishedAt = p.now()
		return summary, fmt.Errorf("exporting postings: %w", err)
	}
	summary.OutputFile = file
	log.Info("exported postings", "file", file, "count", len(unique))

	summary.New = p.markSeen(log, unique)

	if p.uploader != nil {
		res, err := p.uploader.Upload(ctx, unique)
		summary.Upload = &res
		if err != nil {
			log.Error("upload aborted", "error", err)
		}
	}

	summary.FinishedAt = p.now()
	if err := p.ledger.RecordRun(*summary); err != nil {
		log.Warn("recording run failed", "error", err)
	}

	p.logSummary(log, summary)
	return summary, nil
}

// markSeen records every posting in the ledger and returns how many had
// never been exported before. Ledger errors are logged, never fatal.
func (p *Pipeline) markSeen(log *slog.Logger, postings []model.JobPosting) int {
	n := 0
	for _, job := range postings {
		if job.URL == adapter.PlaceholderURL {
			continue
		}
		isNew, err := p.ledger.MarkSeen(job.URL)
		if err != nil {
			log.Warn("ledger update failed", "url", job.URL, "error", err)
			continue
		}
		if isNew {
			n++
		}
	}
	return n
}

func (p *Pipeline) logSummary(log *slog.Logger, s *model.RunSummary) {
	log.Info("run complete",
		"fetched", s.Fetched,
		"failed_partitions", s.FailedPartitions(),
		"filtered_out", s.FilteredOut,
		"unique", s.Unique,
		"new", s.New,
		"file", s.OutputFile,
		"duration", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond).String(),
	)
	if s.Upload != nil {
		log.Info("upload summary",
			"target", s.Upload.Target,
			"skipped", s.Upload.Skipped,
			"succeeded", s.Upload.Succeeded,
			"duplicates", s.Upload.Duplicates,
			"failed", s.Upload.Failed,
		)
	}
	if s.Degraded() {
		log.Warn("run degraded",
			"failed_partitions", s.FailedPartitions(),
			"failed_uploads", uploadFailures(s),
		)
	}
}

func uploadFailures(s *model.RunSummary) int {
	if s.Upload == nil {
		return 0
	}
	return s.Upload.Failed
}
