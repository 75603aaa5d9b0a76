package model

import "fmt"

// RawRecord is one unparsed line of profiling output plus where it came from.
// Immutable once produced by the reader.
type RawRecord struct {
	Text   string `json:"text"`
	Source string `json:"source"` // originating file path
	Line   int    `json:"line"`   // 1-based line number
}

// Location returns the record's position as "file:line".
func (r RawRecord) Location() string {
	return fmt.Sprintf("%s:%d", r.Source, r.Line)
}

// ProfilingEntry is one structured measurement: a metric value for a named
// code region, extracted from one or more raw records.
type ProfilingEntry struct {
	Region string     `json:"region"`
	Metric string     `json:"metric"`
	Kind   MetricKind `json:"kind"`
	Unit   string     `json:"unit,omitempty"`
	Value  float64    `json:"value"`
	Source string     `json:"source,omitempty"`
	Line   int        `json:"line,omitempty"`
}

// Location returns the entry's source position as "file:line".
func (e ProfilingEntry) Location() string {
	return fmt.Sprintf("%s:%d", e.Source, e.Line)
}

// Validate checks that the entry carries its identifying fields and that the
// metric kind and value are jointly valid: counts and durations cannot be
// negative.
func (e ProfilingEntry) Validate() error {
	if e.Region == "" {
		return fmt.Errorf("entry at %s has no region", e.Location())
	}
	if e.Metric == "" {
		return fmt.Errorf("entry at %s has no metric", e.Location())
	}
	if (e.Kind == KindCount || e.Kind == KindDuration) && e.Value < 0 {
		return fmt.Errorf("entry at %s: %s %s cannot be negative (%v)", e.Location(), e.Metric, e.Kind, e.Value)
	}
	return nil
}
