package parser

import (
	"strings"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// FMS parses the clock summaries written by FMS-based ocean models (MOM5,
// MOM6). The section looks like:
//
//	                        hits          tmin          tmax          tavg          tstd  tfrac grain pemin pemax
//	Total runtime              1    138.600364    138.600366    138.600365      0.000001  1.000     0     0    11
//	Ocean Initialization       2      2.344926      2.345701      2.345388      0.000198  0.017    11     0    11
//	 MPP_STACK high water mark=           0
//
// The hits column is absent in some builds (MOM5 as used by ACCESS-ESM1.6);
// its presence is detected from the header row.
type FMS struct{}

func NewFMS() *FMS { return &FMS{} }

func (p *FMS) Name() string { return "fms" }

func (p *FMS) Metrics() []model.Metric {
	return []model.Metric{
		model.Count, model.TMin, model.TMax, model.TAvg, model.TStd,
		model.TFrac, model.Grain, model.PEMin, model.PEMax,
	}
}

// fmsFooter marks the end of the clock summary section.
const fmsFooter = "MPP_STACK high water mark"

func (p *FMS) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	var (
		cols    []model.Metric
		entries []model.ProfilingEntry
	)

	for _, rec := range records {
		if cols == nil {
			cols = fmsHeader(rec.Text)
			continue
		}
		if strings.Contains(rec.Text, fmsFooter) {
			break
		}

		fields := strings.Fields(rec.Text)
		if len(fields) < len(cols)+1 {
			continue
		}
		if c := fields[0][0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '(') {
			continue
		}

		region := strings.Join(fields[:len(fields)-len(cols)], " ")
		values := fields[len(fields)-len(cols):]
		for i, m := range cols {
			v, err := number(rec, m.Name, values[i])
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry(rec, region, m, v))
		}
	}

	if cols == nil {
		return nil, ErrNoData
	}
	return entries, nil
}

// fmsHeader recognizes the clock summary header row and returns the metric
// columns it declares, or nil if the line is not the header. FMS labels the
// call-count column "hits"; it maps onto the common count metric.
func fmsHeader(line string) []model.Metric {
	fields := strings.Fields(line)

	labels := []string{"hits", "tmin", "tmax", "tavg", "tstd", "tfrac", "grain", "pemin", "pemax"}
	cols := []model.Metric{
		model.Count, model.TMin, model.TMax, model.TAvg, model.TStd,
		model.TFrac, model.Grain, model.PEMin, model.PEMax,
	}

	for _, start := range []int{0, 1} { // with and without the hits column
		if len(fields) != len(labels)-start {
			continue
		}
		match := true
		for i, label := range labels[start:] {
			if fields[i] != label {
				match = false
				break
			}
		}
		if match {
			return cols[start:]
		}
	}
	return nil
}
