package store

import (
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// NopStore is a no-op ledger used when the ledger is disabled. It never
// remembers URLs, so every posting appears new on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) MarkSeen(_ string) (bool, error)              { return true, nil }
func (s *NopStore) RecordRun(_ model.RunSummary) error           { return nil }
func (s *NopStore) RecentRuns(_ int) ([]model.RunSummary, error) { return nil, nil }
func (s *NopStore) Cleanup(_ time.Duration) (int64, error)       { return 0, nil }
func (s *NopStore) Close() error                                 { return nil }
