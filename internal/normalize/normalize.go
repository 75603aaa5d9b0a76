package normalize

import (
	"fmt"
	"sort"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// SchemaConflictError reports two entries that disagree on the semantic
// meaning of a shared metric name, e.g. one reporting a count where another
// reports a duration.
type SchemaConflictError struct {
	Metric string
	First  model.ProfilingEntry
	Second model.ProfilingEntry
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("schema conflict on metric %q: %s reports %s (%s), %s reports %s (%s)",
		e.Metric,
		e.First.Location(), e.First.Kind, e.First.Unit,
		e.Second.Location(), e.Second.Kind, e.Second.Unit)
}

// Table materializes parsed entries into one ProfilingTable. The schema is
// inferred as the union of metrics seen, keeping each metric's first-seen
// kind and unit; a later entry disagreeing with either fails with a
// SchemaConflictError. Rows are ordered by (region, metric, source order) so
// identical input always yields an identical table. An empty entry sequence
// yields an empty table, not an error.
func Table(entries []model.ProfilingEntry) (*model.ProfilingTable, error) {
	schema, err := inferSchema(entries)
	if err != nil {
		return nil, err
	}
	return build(entries, schema)
}

// TableWithSchema is Table with a caller-supplied expected schema: every
// entry must use a metric from the schema with a matching kind and unit.
func TableWithSchema(entries []model.ProfilingEntry, schema []model.Column) (*model.ProfilingTable, error) {
	byName := make(map[string]model.Column, len(schema))
	for _, col := range schema {
		byName[col.Name] = col
	}
	for _, e := range entries {
		col, ok := byName[e.Metric]
		if !ok {
			return nil, fmt.Errorf("entry at %s: metric %q is not in the expected schema", e.Location(), e.Metric)
		}
		if col.Kind != e.Kind || col.Unit != e.Unit {
			return nil, &SchemaConflictError{
				Metric: e.Metric,
				First:  model.ProfilingEntry{Metric: col.Name, Kind: col.Kind, Unit: col.Unit},
				Second: e,
			}
		}
	}
	return build(entries, schema)
}

// inferSchema returns the union of metric columns in first-seen order.
func inferSchema(entries []model.ProfilingEntry) ([]model.Column, error) {
	first := make(map[string]model.ProfilingEntry)
	var columns []model.Column
	for _, e := range entries {
		seen, ok := first[e.Metric]
		if !ok {
			first[e.Metric] = e
			columns = append(columns, model.Column{Name: e.Metric, Kind: e.Kind, Unit: e.Unit})
			continue
		}
		if seen.Kind != e.Kind || seen.Unit != e.Unit {
			return nil, &SchemaConflictError{Metric: e.Metric, First: seen, Second: e}
		}
	}
	return columns, nil
}

func build(entries []model.ProfilingEntry, schema []model.Column) (*model.ProfilingTable, error) {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}

	rows := make([]model.ProfilingEntry, len(entries))
	copy(rows, entries)
	// Stable sort keeps source order for (region, metric) ties.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Region != rows[j].Region {
			return rows[i].Region < rows[j].Region
		}
		return rows[i].Metric < rows[j].Metric
	})

	if schema == nil {
		schema = []model.Column{}
	}
	return &model.ProfilingTable{Columns: schema, Rows: rows}, nil
}
