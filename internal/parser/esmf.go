package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// ESMF parses the profiling text summary written by ESMF/NUOPC drivers
// (e.g. ACCESS-OM3). Rows carry a region name followed by eight statistic
// columns:
//
//	Region                           PETs   PEs    Count    Mean (s)    Min (s)     Min PET Max (s)     Max PET
//	  [OCN] RunPhase1                1300   1300   960      1850.4170   1848.3905   1023    1858.6404   364
//
// Indentation encodes call depth and is not significant here. The same
// region name can appear more than once (e.g. [ATM-TO-MED] RunPhase1 in
// OM3); duplicates with matching PETs/PEs are merged with a count-weighted
// mean and the overall min/max, anything else is an error. Banner and
// header lines fail the statistics conversion and are skipped, which is how
// the format tolerates the load-imbalance warning block.
type ESMF struct{}

func NewESMF() *ESMF { return &ESMF{} }

func (p *ESMF) Name() string { return "esmf" }

func (p *ESMF) Metrics() []model.Metric {
	return []model.Metric{
		model.PETs, model.PEs, model.Count, model.TAvg,
		model.TMin, model.PEMin, model.TMax, model.PEMax,
	}
}

type esmfRow struct {
	rec   model.RawRecord
	pets  float64
	pes   float64
	count float64
	tavg  float64
	tmin  float64
	pemin float64
	tmax  float64
	pemax float64
}

func (p *ESMF) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	var (
		order []string
		rows  = make(map[string]*esmfRow)
	)

	for _, rec := range records {
		fields := strings.Fields(rec.Text)
		if len(fields) < 9 {
			continue
		}

		region := strings.Join(fields[:len(fields)-8], " ")
		stats := fields[len(fields)-8:]

		row, ok := esmfStats(rec, stats)
		if !ok {
			continue
		}

		existing, seen := rows[region]
		if !seen {
			rows[region] = &row
			order = append(order, region)
			continue
		}
		if err := mergeESMF(existing, &row, region); err != nil {
			return nil, err
		}
	}

	if len(order) == 0 {
		return nil, ErrNoData
	}

	var entries []model.ProfilingEntry
	for _, region := range order {
		r := rows[region]
		for _, col := range []struct {
			metric model.Metric
			value  float64
		}{
			{model.PETs, r.pets},
			{model.PEs, r.pes},
			{model.Count, r.count},
			{model.TAvg, r.tavg},
			{model.TMin, r.tmin},
			{model.PEMin, r.pemin},
			{model.TMax, r.tmax},
			{model.PEMax, r.pemax},
		} {
			entries = append(entries, entry(r.rec, region, col.metric, col.value))
		}
	}
	return entries, nil
}

// esmfStats converts the eight trailing columns of a summary row. A failed
// conversion means the line is not a data row.
func esmfStats(rec model.RawRecord, stats []string) (esmfRow, bool) {
	ints := make([]float64, 5)
	for i, idx := range []int{0, 1, 2, 5, 7} { // PETs, PEs, Count, Min PET, Max PET
		v, err := strconv.Atoi(stats[idx])
		if err != nil {
			return esmfRow{}, false
		}
		ints[i] = float64(v)
	}
	floats := make([]float64, 3)
	for i, idx := range []int{3, 4, 6} { // Mean, Min, Max
		v, err := strconv.ParseFloat(stats[idx], 64)
		if err != nil {
			return esmfRow{}, false
		}
		floats[i] = v
	}
	return esmfRow{
		rec:   rec,
		pets:  ints[0],
		pes:   ints[1],
		count: ints[2],
		tavg:  floats[0],
		tmin:  floats[1],
		pemin: ints[3],
		tmax:  floats[2],
		pemax: ints[4],
	}, true
}

// mergeESMF folds a repeated region into its first occurrence.
func mergeESMF(dst, src *esmfRow, region string) error {
	if dst.pets != src.pets || dst.pes != src.pes || src.pets != src.pes {
		return fmt.Errorf("region %q repeated with different PETs/PEs (%s and %s)",
			region, dst.rec.Location(), src.rec.Location())
	}

	// Count-weighted mean, then the overall extrema with their PETs.
	total := dst.count + src.count
	dst.tavg = (dst.tavg*dst.count + src.tavg*src.count) / total
	dst.count = total
	if src.tmin < dst.tmin {
		dst.tmin = src.tmin
		dst.pemin = src.pemin
	}
	if src.tmax > dst.tmax {
		dst.tmax = src.tmax
		dst.pemax = src.pemax
	}
	return nil
}
