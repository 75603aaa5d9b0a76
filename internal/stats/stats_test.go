package stats

import "testing"

func TestStatsCounters(t *testing.T) {
	s := New(func() int { return 3 })

	s.RecordIngest(2, 40, 5)
	s.RecordIngest(1, 10, 0)
	s.RecordFailure()

	snap := s.Snapshot()
	if snap.FilesParsed != 3 {
		t.Errorf("expected 3 files, got %d", snap.FilesParsed)
	}
	if snap.Entries != 50 {
		t.Errorf("expected 50 entries, got %d", snap.Entries)
	}
	if snap.SkippedLines != 5 {
		t.Errorf("expected 5 skipped lines, got %d", snap.SkippedLines)
	}
	if snap.ParseFailures != 1 {
		t.Errorf("expected 1 failure, got %d", snap.ParseFailures)
	}
	if snap.Components != 3 {
		t.Errorf("expected 3 components, got %d", snap.Components)
	}
	if snap.LastRefresh.IsZero() {
		t.Error("expected LastRefresh to be set after an ingest")
	}
}

func TestStatsZero(t *testing.T) {
	s := New(func() int { return 0 })

	snap := s.Snapshot()
	if snap.FilesParsed != 0 || snap.Entries != 0 {
		t.Errorf("fresh stats must be zero: %+v", snap)
	}
	if !snap.LastRefresh.IsZero() {
		t.Error("LastRefresh must be zero before any ingest")
	}
}
