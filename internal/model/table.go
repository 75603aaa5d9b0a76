package model

// Column is one metric column of a normalized table's schema.
type Column struct {
	Name string     `json:"name"`
	Kind MetricKind `json:"kind"`
	Unit string     `json:"unit,omitempty"`
}

// ProfilingTable is the normalized, analysis-ready form of a parse: an
// ordered collection of entries sharing one schema. Built once by the
// normalizer and never mutated afterwards.
type ProfilingTable struct {
	Columns []Column         `json:"columns"` // metric columns, in schema order
	Rows    []ProfilingEntry `json:"rows"`    // one row per measurement
}

// Regions returns the distinct region names in row order.
func (t *ProfilingTable) Regions() []string {
	seen := make(map[string]bool)
	var regions []string
	for _, row := range t.Rows {
		if !seen[row.Region] {
			seen[row.Region] = true
			regions = append(regions, row.Region)
		}
	}
	return regions
}

// Column returns the schema column with the given metric name.
func (t *ProfilingTable) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Value returns the measurement for a (region, metric) pair. When a region
// reports the same metric more than once, the first row in table order wins.
func (t *ProfilingTable) Value(region, metric string) (float64, bool) {
	for _, row := range t.Rows {
		if row.Region == region && row.Metric == metric {
			return row.Value, true
		}
	}
	return 0, false
}

// Len returns the number of rows.
func (t *ProfilingTable) Len() int { return len(t.Rows) }
