package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// Ensure RESTUploader implements model.Uploader.
var _ model.Uploader = (*RESTUploader)(nil)

// Waiter paces outgoing requests. *ratelimit.HostLimiter satisfies it.
type Waiter interface {
	WaitURL(ctx context.Context, raw string) error
}

// RESTUploader POSTs each posting to a PostgREST-style table endpoint.
type RESTUploader struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    Waiter
	now        func() time.Time
	logger     *slog.Logger
}

// NewRESTUploader returns an uploader for endpoint (e.g.
// https://xyz.supabase.co/rest/v1/jobs) authenticated with apiKey.
func NewRESTUploader(endpoint, apiKey string, httpClient *http.Client, logger *slog.Logger) *RESTUploader {
	return &RESTUploader{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
		now:        time.Now,
		logger:     logger,
	}
}

// SetLimiter makes the uploader wait on l before every request.
func (u *RESTUploader) SetLimiter(l Waiter) {
	u.limiter = l
}

// Upload sends each posting as its own request. Per-record failures are
// logged and counted; only context cancellation stops the pass early.
func (u *RESTUploader) Upload(ctx context.Context, postings []model.JobPosting) (model.UploadResult, error) {
	res := result{Target: "rest"}
	if u.apiKey == "" {
		u.logger.Warn("upload key not configured, skipping upload")
		res.Skipped = true
		return model.UploadResult(res), nil
	}

	u.logger.Info("uploading postings", "count", len(postings), "endpoint", u.endpoint)

	for _, p := range postings {
		if err := ctx.Err(); err != nil {
			return model.UploadResult(res), fmt.Errorf("upload cancelled: %w", err)
		}

		status, err := u.send(ctx, p)
		if err != nil {
			var httpErr *model.HTTPError
			if errors.As(err, &httpErr) {
				u.logger.Warn("upload rejected", "url", p.URL, "status", httpErr.StatusCode, "body", httpErr.Body)
			} else {
				u.logger.Warn("upload failed", "url", p.URL, "error", err)
			}
			res.Failed++
			continue
		}
		res.add(Classify(status))
	}

	u.logger.Info("upload complete",
		"succeeded", res.Succeeded,
		"duplicates", res.Duplicates,
		"failed", res.Failed,
	)
	return model.UploadResult(res), nil
}

// send posts one posting. It returns the status for 2xx and 409 responses
// and a *model.HTTPError for everything else.
func (u *RESTUploader) send(ctx context.Context, p model.JobPosting) (int, error) {
	body, err := json.Marshal(BuildPayload(p, u.now()))
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	if u.limiter != nil {
		if err := u.limiter.WaitURL(ctx, u.endpoint); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", u.apiKey)
	req.Header.Set("Authorization", "Bearer "+u.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return 0, fmt.Errorf("post posting: %w", err)
	}
	defer resp.Body.Close()

	if Classify(resp.StatusCode) == OutcomeFailed {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 100))
		return 0, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
