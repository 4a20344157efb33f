package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

func TestHostLimiter_FirstCallNoWait(t *testing.T) {
	rl := NewHostLimiter(1, 1)

	start := time.Now()
	if err := rl.Wait(context.Background(), "api.adzuna.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first call took %v, expected near-instant", elapsed)
	}
}

func TestHostLimiter_SecondCallWaits(t *testing.T) {
	rl := NewHostLimiter(5, 1) // one token every 200ms

	ctx := context.Background()
	rl.Wait(ctx, "api.adzuna.com")

	start := time.Now()
	if err := rl.Wait(ctx, "api.adzuna.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("second call took %v, expected ~200ms", elapsed)
	}
}

func TestHostLimiter_DifferentHostsIndependent(t *testing.T) {
	rl := NewHostLimiter(0.5, 1)

	ctx := context.Background()
	rl.Wait(ctx, "api.adzuna.com")

	start := time.Now()
	if err := rl.WaitURL(ctx, "https://proj.supabase.co/rest/v1/jobs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("different host took %v, expected near-instant", elapsed)
	}
}

func TestHostLimiter_ZeroRateUnlimited(t *testing.T) {
	rl := NewHostLimiter(0, 0)

	start := time.Now()
	for i := 0; i < 50; i++ {
		if err := rl.Wait(context.Background(), "h"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unlimited limiter took %v", elapsed)
	}
}

func TestHostLimiter_ContextCancelled(t *testing.T) {
	rl := NewHostLimiter(0.1, 1)

	ctx := context.Background()
	rl.Wait(ctx, "h")

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "h"); err == nil {
		t.Fatal("expected error when waiting past the deadline")
	}
}

type countingFetcher struct{ calls []string }

func (c *countingFetcher) FetchPartition(_ context.Context, partition string) ([]model.JobPosting, error) {
	c.calls = append(c.calls, partition)
	return []model.JobPosting{{URL: "u-" + partition}}, nil
}

func TestRateLimitedFetcher_Delegates(t *testing.T) {
	inner := &countingFetcher{}
	f := NewRateLimitedFetcher(inner, NewHostLimiter(0, 1), "https://api.adzuna.com/v1/api/jobs")

	if f.host != "api.adzuna.com" {
		t.Errorf("host = %q", f.host)
	}

	jobs, err := f.FetchPartition(context.Background(), "be")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].URL != "u-be" {
		t.Errorf("unexpected jobs: %v", jobs)
	}
	if len(inner.calls) != 1 {
		t.Errorf("inner called %d times, want 1", len(inner.calls))
	}
}
