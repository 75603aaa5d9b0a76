package parser

import (
	"regexp"
	"strings"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// UM parses the inclusive timer summary written to the UM output log
// (e.g. atm.fort6.pe0). Only the wallclock sub-section is read:
//
//	 MPP : Inclusive timer summary
//
//	 WALLCLOCK  TIMES
//	 <N>   ROUTINE                   MEAN   MEDIAN       SD   % of mean      MAX   (PE)      MIN   (PE)
//	  1 AS3 Atmos_Phys2        1308.30  1308.30     0.02       0.00%  1308.33 ( 118)  1308.26 ( 221)
//
//	         CPU TIMES (sorted by wallclock times)
//
// The leading row index and the "% of mean" column are discarded. UM v13
// adds an extra N header column absent from v7; neither is needed since
// rows are matched by shape, not position.
type UM struct{}

func NewUM() *UM { return &UM{} }

func (p *UM) Name() string { return "um" }

func (p *UM) Metrics() []model.Metric {
	return []model.Metric{
		model.TAvg, model.TMed, model.TStd, model.TMax, model.PEMax, model.TMin, model.PEMin,
	}
}

// umRowRe captures mean, median, sd, % of mean, max, maxPE, min, minPE.
var umRowRe = regexp.MustCompile(
	`^\s*\d+\s+([A-Za-z].*?)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)%\s+(\S+)\s+\(\s*([^)]+?)\s*\)\s+(\S+)\s+\(\s*([^)]+?)\s*\)\s*$`)

func (p *UM) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	var entries []model.ProfilingEntry

	const (
		seekSummary = iota
		seekWallclock
		seekHeader
		inSection
	)
	stage := seekSummary

scan:
	for _, rec := range records {
		switch stage {
		case seekSummary:
			if strings.Contains(rec.Text, "MPP : Inclusive timer summary") {
				stage = seekWallclock
			}
		case seekWallclock:
			if strings.Contains(rec.Text, "WALLCLOCK") && strings.Contains(rec.Text, "TIMES") {
				stage = seekHeader
			}
		case seekHeader:
			if strings.Contains(rec.Text, "ROUTINE") && strings.Contains(rec.Text, "MEAN") {
				stage = inSection
			}
		case inSection:
			if strings.Contains(rec.Text, "CPU TIMES") {
				break scan
			}
			m := umRowRe.FindStringSubmatch(rec.Text)
			if m == nil {
				continue
			}
			region := m[1]
			for _, col := range []struct {
				metric model.Metric
				raw    string
				whole  bool
			}{
				{model.TAvg, m[2], false},
				{model.TMed, m[3], false},
				{model.TStd, m[4], false},
				{model.TMax, m[6], false}, // m[5] is % of mean, ignored
				{model.PEMax, m[7], true},
				{model.TMin, m[8], false},
				{model.PEMin, m[9], true},
			} {
				var (
					v   float64
					err error
				)
				if col.whole {
					v, err = integer(rec, col.metric.Name, col.raw)
				} else {
					v, err = number(rec, col.metric.Name, col.raw)
				}
				if err != nil {
					return nil, err
				}
				entries = append(entries, entry(rec, region, col.metric, v))
			}
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoData
	}
	return entries, nil
}

// UMTotal extracts the total runtime line printed at the end of a UM run:
//
//	Maximum Elapsed Wallclock Time:    3944.07699399998
type UMTotal struct{}

func NewUMTotal() *UMTotal { return &UMTotal{} }

func (p *UMTotal) Name() string { return "um-total" }

func (p *UMTotal) Metrics() []model.Metric { return []model.Metric{model.TMax} }

var umTotalRe = regexp.MustCompile(`Maximum\s+Elapsed\s+Wallclock\s+Time\s*:\s*(\S+)`)

func (p *UMTotal) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	for _, rec := range records {
		m := umTotalRe.FindStringSubmatch(rec.Text)
		if m == nil {
			continue
		}
		v, err := number(rec, "total walltime", m[1])
		if err != nil {
			return nil, err
		}
		return []model.ProfilingEntry{entry(rec, "um_total_walltime", model.TMax, v)}, nil
	}
	return nil, ErrNoData
}
