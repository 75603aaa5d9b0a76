package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// PayuJSON parses the job summary JSON written by payu into
// archive/payu_jobs/<id>/run/. Every *_duration_seconds entry under the
// "timings" object becomes one region:
//
//	{
//	    "timings": {
//	        "payu_start_time": "2025-09-16T08:52:50.748807",
//	        "payu_setup_duration_seconds": 47.738,
//	        "payu_model_run_duration_seconds": 6776.044,
//	        ...
//	    },
//	    ...
//	}
type PayuJSON struct{}

func NewPayuJSON() *PayuJSON { return &PayuJSON{} }

func (p *PayuJSON) Name() string { return "payujson" }

func (p *PayuJSON) Metrics() []model.Metric { return []model.Metric{model.TMax} }

const payuDurationSuffix = "_duration_seconds"

func (p *PayuJSON) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = rec.Text
	}

	var doc struct {
		Timings map[string]any `json:"timings"`
	}
	if err := json.Unmarshal([]byte(strings.Join(lines, "\n")), &doc); err != nil {
		return nil, fmt.Errorf("%w: not a payu JSON log", ErrNoData)
	}
	if doc.Timings == nil {
		return nil, fmt.Errorf("%w: payu JSON has no timings object", ErrNoData)
	}

	// Keys are sorted so repeated runs on the same input produce the same
	// entry order regardless of map iteration.
	var regions []string
	for key := range doc.Timings {
		if strings.HasSuffix(key, payuDurationSuffix) {
			regions = append(regions, key)
		}
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: payu timings contain no durations", ErrNoData)
	}
	sort.Strings(regions)

	first := records[0]
	var entries []model.ProfilingEntry
	for _, region := range regions {
		value, ok := doc.Timings[region].(float64)
		if !ok {
			return nil, &MalformedRecordError{
				Record: first,
				Reason: fmt.Sprintf("timings[%q] is not a number", region),
			}
		}
		entries = append(entries, entry(first, region, model.TMax, value))
	}
	return entries, nil
}
