package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// Cylc derives the total pipeline walltime from a cylc suite run log:
//
//	2025-10-17T00:51:12Z INFO - Suite server: url=... pid=152868
//	...
//	2025-10-17T01:36:30Z INFO - DONE
//
// The elapsed time between the first and last timestamps is reported as one
// pipeline_elapsed_time region. A log whose last line is not DONE belongs to
// a suite that has not finished; it carries no usable data.
type Cylc struct{}

func NewCylc() *Cylc { return &Cylc{} }

func (p *Cylc) Name() string { return "cylc" }

func (p *Cylc) Metrics() []model.Metric { return []model.Metric{model.TMax} }

func (p *Cylc) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	first := records[0]
	last := records[len(records)-1]

	start, err := cylcTimestamp(first.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: first line has no cylc timestamp", ErrNoData)
	}
	if !strings.Contains(last.Text, "DONE") {
		return nil, fmt.Errorf("%w: cylc log is incomplete (no final DONE)", ErrNoData)
	}
	end, err := cylcTimestamp(last.Text)
	if err != nil {
		return nil, &MalformedRecordError{Record: last, Reason: "last line has an invalid timestamp"}
	}

	elapsed := float64(int64(end.Sub(start).Seconds()))
	return []model.ProfilingEntry{entry(last, "pipeline_elapsed_time", model.TMax, elapsed)}, nil
}

func cylcTimestamp(line string) (time.Time, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("empty line")
	}
	return time.Parse(time.RFC3339, fields[0])
}
