package model

// MetricKind classifies the semantic type of a metric value. Two entries
// reporting different kinds under the same metric name is a schema conflict.
type MetricKind string

const (
	KindDuration MetricKind = "duration" // elapsed time, seconds
	KindCount    MetricKind = "count"    // call/hit counts, sizes
	KindFraction MetricKind = "fraction" // ratio of a whole
	KindIndex    MetricKind = "index"    // identifiers such as PE ranks
)

// Metric describes one profiling metric as reported by a model run.
type Metric struct {
	Name        string     `json:"name"`
	Kind        MetricKind `json:"kind"`
	Unit        string     `json:"unit"`
	Description string     `json:"description,omitempty"`
}

// Common metrics shared across the supported output formats. Parsers map
// format-specific column names onto these so tables stay comparable.
var (
	Count = Metric{Name: "count", Kind: KindCount, Unit: "1", Description: "number of calls to region"}
	TMin  = Metric{Name: "tmin", Kind: KindDuration, Unit: "s", Description: "minimum time spent in region"}
	TMax  = Metric{Name: "tmax", Kind: KindDuration, Unit: "s", Description: "maximum time spent in region"}
	TAvg  = Metric{Name: "tavg", Kind: KindDuration, Unit: "s", Description: "average time spent in region"}
	TMed  = Metric{Name: "tmed", Kind: KindDuration, Unit: "s", Description: "median time spent in region"}
	TStd  = Metric{Name: "tstd", Kind: KindDuration, Unit: "s", Description: "standard deviation of time spent in region"}
	TFrac = Metric{Name: "tfrac", Kind: KindFraction, Unit: "1", Description: "fraction of total time spent in region"}
	Grain = Metric{Name: "grain", Kind: KindIndex, Unit: "1", Description: "FMS clock granularity"}
	PEMin = Metric{Name: "pemin", Kind: KindIndex, Unit: "1", Description: "processing element with the minimum time"}
	PEMax = Metric{Name: "pemax", Kind: KindIndex, Unit: "1", Description: "processing element with the maximum time"}
	PETs  = Metric{Name: "pets", Kind: KindCount, Unit: "1", Description: "ESMF persistent execution threads"}
	PEs   = Metric{Name: "pes", Kind: KindCount, Unit: "1", Description: "processing elements"}
)
