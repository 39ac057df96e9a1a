package pipeline

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Observe(time.Duration(ms)*time.Millisecond, StatusCompleted)
	}

	snap := stats.Snapshot()
	if snap.Completed != 5 {
		t.Fatalf("expected completed=5, got %d", snap.Completed)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Window != "1h0m0s" {
		t.Fatalf("expected window=1h0m0s, got %q", snap.Window)
	}
}

func TestStatsCountsOutcomes(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Observe(time.Second, StatusCompleted)
	stats.Observe(time.Second, StatusFailed)
	stats.Observe(time.Second, StatusFailed)
	stats.Observe(time.Millisecond, StatusDupSkipped)

	snap := stats.Snapshot()
	if snap.Completed != 1 || snap.Failed != 2 || snap.Skipped != 1 {
		t.Fatalf("expected 1/2/1, got %d/%d/%d", snap.Completed, snap.Failed, snap.Skipped)
	}
	if snap.MinMs != 1000 || snap.MaxMs != 1000 {
		t.Fatalf("expected latency from completed only, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	stats := NewStats(10 * time.Minute)
	stats.now = func() time.Time { return now }

	stats.Observe(100*time.Millisecond, StatusCompleted)
	now = now.Add(11 * time.Minute)

	snap := stats.Snapshot()
	if snap.Completed != 0 {
		t.Fatalf("expected completed=0 after prune, got %d", snap.Completed)
	}

	stats.Observe(200*time.Millisecond, StatusCompleted)
	snap = stats.Snapshot()
	if snap.Completed != 1 {
		t.Fatalf("expected completed=1 for fresh sample, got %d", snap.Completed)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsObserveClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Observe(-10*time.Millisecond, StatusCompleted)
	snap := stats.Snapshot()
	if snap.Completed != 1 {
		t.Fatalf("expected completed=1, got %d", snap.Completed)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsEmptySnapshot(t *testing.T) {
	snap := NewStats(0).Snapshot()
	if snap.Completed != 0 || snap.P99Ms != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
	if snap.Window != "1h0m0s" {
		t.Fatalf("expected default window, got %q", snap.Window)
	}
}
