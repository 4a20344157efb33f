package model

import (
	"context"
	"time"
)

// JobPosting is the normalized representation of one listing from any partition.
type JobPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"` // dedup key, opaque
	Source      string `json:"source"`
	DatePosted  string `json:"date_posted,omitempty"` // empty when upstream had none
	Description string `json:"description"`
}

// PartitionFetcher fetches postings from one upstream search partition
// (e.g. the Adzuna instance for a country code).
type PartitionFetcher interface {
	FetchPartition(ctx context.Context, partition string) ([]JobPosting, error)
}

// Uploader replays postings to an upload target, one record at a time.
type Uploader interface {
	Upload(ctx context.Context, postings []JobPosting) (UploadResult, error)
}

// JobFilter decides whether a posting matches the user's criteria.
type JobFilter interface {
	Match(p JobPosting) bool
}

// Ledger remembers URLs across runs and keeps a history of run summaries.
type Ledger interface {
	MarkSeen(url string) (bool, error)
	RecordRun(s RunSummary) error
	RecentRuns(limit int) ([]RunSummary, error)
}

// UploadResult counts per-record outcomes of one upload pass.
type UploadResult struct {
	Target     string `json:"target"`
	Succeeded  int    `json:"succeeded"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	Skipped    bool   `json:"skipped,omitempty"` // no credential configured
}

// PartitionReport is the fetch outcome for one partition.
type PartitionReport struct {
	Partition string `json:"partition"`
	Fetched   int    `json:"fetched"`
	Error     string `json:"error,omitempty"`
}

// RunSummary is the machine-readable result of one pipeline run.
type RunSummary struct {
	RunID       string            `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
	Keywords    string            `json:"keywords"`
	Partitions  []PartitionReport `json:"partitions"`
	Fetched     int               `json:"fetched"`
	FilteredOut int               `json:"filtered_out"`
	Unique      int               `json:"unique"`
	New         int               `json:"new"`
	OutputFile  string            `json:"output_file,omitempty"`
	Upload      *UploadResult     `json:"upload,omitempty"`
}

// FailedPartitions returns how many partitions could not be fetched.
func (s RunSummary) FailedPartitions() int {
	n := 0
	for _, p := range s.Partitions {
		if p.Error != "" {
			n++
		}
	}
	return n
}

// Degraded reports whether any partition or uploaded record failed.
func (s RunSummary) Degraded() bool {
	if s.FailedPartitions() > 0 {
		return true
	}
	return s.Upload != nil && s.Upload.Failed > 0
}
