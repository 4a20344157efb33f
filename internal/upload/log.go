package upload

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// Ensure LogUploader implements model.Uploader.
var _ model.Uploader = (*LogUploader)(nil)

// LogUploader is a dry-run target: it logs the payload each posting would
// be sent as and counts every posting as succeeded.
type LogUploader struct {
	logger *slog.Logger
}

// NewLogUploader returns an uploader that writes payloads to logger.
func NewLogUploader(logger *slog.Logger) *LogUploader {
	return &LogUploader{logger: logger}
}

// Upload logs each posting. Returns nil (logging does not fail).
func (u *LogUploader) Upload(ctx context.Context, postings []model.JobPosting) (model.UploadResult, error) {
	now := time.Now()
	res := model.UploadResult{Target: "log"}
	for _, p := range postings {
		pl := BuildPayload(p, now)
		u.logger.Info("would upload",
			"title", pl.Title,
			"company", pl.Company,
			"location", pl.Location,
			"url", pl.URL,
			"source", pl.Source,
			"date_posted", pl.DatePosted,
		)
		res.Succeeded++
	}
	return res, nil
}
