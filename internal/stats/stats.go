package stats

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of ingestion counters.
type Snapshot struct {
	Uptime        string    `json:"uptime"`
	FilesParsed   int64     `json:"files_parsed"`
	Entries       int64     `json:"entries"`
	SkippedLines  int64     `json:"skipped_lines"`
	ParseFailures int64     `json:"parse_failures"`
	Components    int       `json:"components"`
	LastRefresh   time.Time `json:"last_refresh,omitempty"`
}

// Stats accumulates counters across ingestion runs. componentsFn provides
// the live component count from whatever store the server is backed by.
type Stats struct {
	mu            sync.RWMutex
	startTime     time.Time
	filesParsed   int64
	entries       int64
	skippedLines  int64
	parseFailures int64
	lastRefresh   time.Time
	components    func() int
}

// New creates a Stats reading the live component count from componentsFn.
func New(componentsFn func() int) *Stats {
	return &Stats{
		startTime:  time.Now(),
		components: componentsFn,
	}
}

// RecordIngest adds the outcome of one successful file ingestion.
func (s *Stats) RecordIngest(files, entries, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesParsed += int64(files)
	s.entries += int64(entries)
	s.skippedLines += int64(skipped)
	s.lastRefresh = time.Now()
}

// RecordFailure counts a failed parse.
func (s *Stats) RecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parseFailures++
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Uptime:        time.Since(s.startTime).Truncate(time.Second).String(),
		FilesParsed:   s.filesParsed,
		Entries:       s.entries,
		SkippedLines:  s.skippedLines,
		ParseFailures: s.parseFailures,
		Components:    s.components(),
		LastRefresh:   s.lastRefresh,
	}
}
