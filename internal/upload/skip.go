package upload

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobfeed/internal/model"
)

// Ensure SkipUploader implements model.Uploader.
var _ model.Uploader = (*SkipUploader)(nil)

// SkipUploader stands in for a target that is missing its credentials. It
// logs a notice and reports the upload as skipped.
type SkipUploader struct {
	target  string
	missing string
	logger  *slog.Logger
}

// NewSkipUploader returns an uploader for target that never sends anything.
// missing names the setting that has to be configured.
func NewSkipUploader(target, missing string, logger *slog.Logger) *SkipUploader {
	return &SkipUploader{target: target, missing: missing, logger: logger}
}

func (u *SkipUploader) Upload(_ context.Context, postings []model.JobPosting) (model.UploadResult, error) {
	u.logger.Warn("upload not configured, skipping upload",
		"target", u.target,
		"missing", u.missing,
		"count", len(postings),
	)
	return model.UploadResult{Target: u.target, Skipped: true}, nil
}
