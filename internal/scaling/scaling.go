package scaling

import (
	"fmt"
	"sort"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// Point is one component's profiling table at a given core count.
type Point struct {
	NCPUs int
	Table *model.ProfilingTable
}

// Series holds tables of the same component across different core counts,
// ordered by ascending NCPUs. The zero value is ready to use.
type Series struct {
	points []Point
}

// Add inserts a point, keeping the series sorted. Two experiments with the
// same core count cannot belong to one scaling series.
func (s *Series) Add(ncpus int, table *model.ProfilingTable) error {
	for _, p := range s.points {
		if p.NCPUs == ncpus {
			return fmt.Errorf("duplicate scaling point for %d cpus", ncpus)
		}
	}
	s.points = append(s.points, Point{NCPUs: ncpus, Table: table})
	sort.Slice(s.points, func(i, j int) bool { return s.points[i].NCPUs < s.points[j].NCPUs })
	return nil
}

// NCPUs returns the core counts of the series in ascending order.
func (s *Series) NCPUs() []int {
	counts := make([]int, len(s.points))
	for i, p := range s.points {
		counts[i] = p.NCPUs
	}
	return counts
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.points) }

// Times returns the raw metric values for a region at each core count. The
// metric must be a duration: speedup and efficiency are meaningless for
// counts or PE ranks.
func (s *Series) Times(region, metric string) ([]float64, error) {
	if len(s.points) == 0 {
		return nil, fmt.Errorf("empty scaling series")
	}

	times := make([]float64, len(s.points))
	for i, p := range s.points {
		col, ok := p.Table.Column(metric)
		if !ok {
			return nil, fmt.Errorf("metric %q not present at %d cpus", metric, p.NCPUs)
		}
		if col.Kind != model.KindDuration {
			return nil, fmt.Errorf("metric %q is a %s, scaling needs a duration", metric, col.Kind)
		}
		v, ok := p.Table.Value(region, metric)
		if !ok {
			return nil, fmt.Errorf("region %q has no %s at %d cpus", region, metric, p.NCPUs)
		}
		times[i] = v
	}
	return times, nil
}

// Speedup computes parallel speedup for a region: t(smallest run) / t(n).
func (s *Series) Speedup(region, metric string) ([]float64, error) {
	times, err := s.Times(region, metric)
	if err != nil {
		return nil, err
	}
	base := times[0]
	speedup := make([]float64, len(times))
	for i, t := range times {
		if t == 0 {
			return nil, fmt.Errorf("region %q spent no time in %s at %d cpus", region, metric, s.points[i].NCPUs)
		}
		speedup[i] = base / t
	}
	return speedup, nil
}

// Efficiency computes parallel efficiency in percent:
// speedup(n) * ncpus(smallest run) / n * 100.
func (s *Series) Efficiency(region, metric string) ([]float64, error) {
	speedup, err := s.Speedup(region, metric)
	if err != nil {
		return nil, err
	}
	base := float64(s.points[0].NCPUs)
	eff := make([]float64, len(speedup))
	for i, v := range speedup {
		eff[i] = v * base / float64(s.points[i].NCPUs) * 100
	}
	return eff, nil
}

// RegionScaling is the scaling outcome for one region.
type RegionScaling struct {
	Region     string    `json:"region"`
	Times      []float64 `json:"times"`
	Speedup    []float64 `json:"speedup"`
	Efficiency []float64 `json:"efficiency"`
}

// Report combines raw timings, speedup and efficiency for a set of regions,
// ready for rendering or plotting.
type Report struct {
	Metric  string          `json:"metric"`
	Unit    string          `json:"unit"`
	NCPUs   []int           `json:"ncpus"`
	Regions []RegionScaling `json:"regions"`
}

// Report builds the scaling report for the given regions. With no regions,
// every region of the smallest run is reported.
func (s *Series) Report(regions []string, metric string) (*Report, error) {
	if len(s.points) == 0 {
		return nil, fmt.Errorf("empty scaling series")
	}
	if len(regions) == 0 {
		regions = s.points[0].Table.Regions()
	}

	col, ok := s.points[0].Table.Column(metric)
	if !ok {
		return nil, fmt.Errorf("metric %q not present in series", metric)
	}

	report := &Report{Metric: metric, Unit: col.Unit, NCPUs: s.NCPUs()}
	for _, region := range regions {
		times, err := s.Times(region, metric)
		if err != nil {
			return nil, err
		}
		speedup, err := s.Speedup(region, metric)
		if err != nil {
			return nil, err
		}
		eff, err := s.Efficiency(region, metric)
		if err != nil {
			return nil, err
		}
		report.Regions = append(report.Regions, RegionScaling{
			Region:     region,
			Times:      times,
			Speedup:    speedup,
			Efficiency: eff,
		})
	}
	return report, nil
}
