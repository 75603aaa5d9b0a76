package parser

import (
	"regexp"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// CICE5 parses the timer report printed at the end of a CICE5 run
// (ice_diag.d). Each timer is a block:
//
//	Timer   2:  TimeLoop    8133.00 seconds
//	  Timer stats (node): min =     8132.99 seconds
//	                      max =     8133.00 seconds
//	                      mean=     8132.99 seconds
//	  Timer stats(block): min =        0.00 seconds
//	                      max =        0.00 seconds
//	                      mean=        0.00 seconds
//
// Node stats are kept (as tmin/tmax/tavg), block stats are discarded.
type CICE5 struct{}

func NewCICE5() *CICE5 { return &CICE5{} }

func (p *CICE5) Name() string { return "cice5" }

func (p *CICE5) Metrics() []model.Metric {
	return []model.Metric{model.TMin, model.TMax, model.TAvg}
}

var (
	cice5TimerRe = regexp.MustCompile(`^Timer\s+\d+:\s+(\S+)\s+(\S+)\s+seconds\s*$`)
	cice5NodeRe  = regexp.MustCompile(`^\s*Timer stats \(node\):\s*min =\s*(\S+)\s+seconds\s*$`)
	cice5BlockRe = regexp.MustCompile(`^\s*Timer stats\s*\(block\):`)
	cice5MaxRe   = regexp.MustCompile(`^\s*max =\s*(\S+)\s+seconds\s*$`)
	cice5MeanRe  = regexp.MustCompile(`^\s*mean=\s*(\S+)\s+seconds\s*$`)
)

func (p *CICE5) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	var entries []model.ProfilingEntry

	region := ""
	inNode := false // inside the node stats of the current timer

	for _, rec := range records {
		switch {
		case cice5TimerRe.MatchString(rec.Text):
			m := cice5TimerRe.FindStringSubmatch(rec.Text)
			if _, err := number(rec, "timer total", m[2]); err != nil {
				return nil, err
			}
			region = m[1]
			inNode = false

		case cice5BlockRe.MatchString(rec.Text):
			inNode = false

		case cice5NodeRe.MatchString(rec.Text):
			if region == "" {
				continue
			}
			m := cice5NodeRe.FindStringSubmatch(rec.Text)
			v, err := number(rec, "node min", m[1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry(rec, region, model.TMin, v))
			inNode = true

		case inNode && cice5MaxRe.MatchString(rec.Text):
			m := cice5MaxRe.FindStringSubmatch(rec.Text)
			v, err := number(rec, "node max", m[1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry(rec, region, model.TMax, v))

		case inNode && cice5MeanRe.MatchString(rec.Text):
			m := cice5MeanRe.FindStringSubmatch(rec.Text)
			v, err := number(rec, "node mean", m[1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry(rec, region, model.TAvg, v))
			inNode = false
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoData
	}
	return entries, nil
}
