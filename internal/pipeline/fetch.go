package pipeline

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobfeed/internal/model"
)

// FetchAll queries each partition in order and concatenates the results.
// A failing partition is logged and reported, and the remaining partitions
// are still fetched. If every partition fails the result is empty, not an
// error.
func FetchAll(ctx context.Context, fetcher model.PartitionFetcher, partitions []string, logger *slog.Logger) ([]model.JobPosting, []model.PartitionReport) {
	var all []model.JobPosting
	reports := make([]model.PartitionReport, 0, len(partitions))

	for _, part := range partitions {
		report := model.PartitionReport{Partition: part}
		if err := ctx.Err(); err != nil {
			report.Error = err.Error()
			reports = append(reports, report)
			continue
		}

		postings, err := fetcher.FetchPartition(ctx, part)
		if err != nil {
			logger.Error("fetch failed", "partition", part, "error", err)
			report.Error = err.Error()
			reports = append(reports, report)
			continue
		}

		logger.Info("fetched partition", "partition", part, "count", len(postings))
		report.Fetched = len(postings)
		reports = append(reports, report)
		all = append(all, postings...)
	}

	return all, reports
}
