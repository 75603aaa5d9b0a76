package experiment

import (
	"errors"
	"fmt"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
	"github.com/ACCESS-NRI/access-profiling/internal/normalize"
	"github.com/ACCESS-NRI/access-profiling/internal/parser"
	"github.com/ACCESS-NRI/access-profiling/internal/reader"
	"github.com/ACCESS-NRI/access-profiling/internal/scaling"
)

// Kind identifies the workflow manager that produced an experiment
// directory, which decides how component logs are located.
type Kind string

const (
	KindPayu Kind = "payu"
	KindCylc Kind = "cylc"
)

// ParseKind validates a workflow kind given on the command line.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPayu, KindCylc:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown experiment kind %q (known: payu, cylc)", s)
}

// Log pairs one component's profiling log with the parser that reads it.
type Log struct {
	Component string
	Path      string
	Format    parser.Format // nil when DB is set
	DB        bool          // read via the cylc sqlite reader instead of line records
	Optional  bool          // drop silently when the format finds no data
}

// Parse reads and normalizes the log into a table. Optional logs whose
// format finds no data yield (nil, nil).
func (l Log) Parse() (*model.ProfilingTable, error) {
	var (
		entries []model.ProfilingEntry
		err     error
	)
	if l.DB {
		entries, err = parser.NewCylcDB().ParseFile(l.Path)
	} else {
		var records []model.RawRecord
		records, err = reader.ReadAll(l.Path)
		if err == nil {
			entries, err = l.Format.Parse(records)
		}
	}
	if err != nil {
		if l.Optional && errors.Is(err, parser.ErrNoData) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s (%s): %w", l.Component, l.Path, err)
	}
	return normalize.Table(entries)
}

// Logs locates the profiling logs of one experiment directory.
func Logs(kind Kind, dir string) ([]Log, error) {
	switch kind {
	case KindPayu:
		return PayuLogs(dir)
	case KindCylc:
		return CylcLogs(dir)
	}
	return nil, fmt.Errorf("unknown experiment kind %q", kind)
}

// Tables parses every log of an experiment into per-component tables.
// Optional logs that match nothing are dropped; a component discovered twice
// (e.g. in successive payu output directories) keeps the latest table, as
// later outputs supersede earlier ones.
func Tables(kind Kind, dir string) (map[string]*model.ProfilingTable, error) {
	logs, err := Logs(kind, dir)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*model.ProfilingTable)
	for _, l := range logs {
		table, err := l.Parse()
		if err != nil {
			return nil, err
		}
		if table != nil {
			tables[l.Component] = table
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no profiling logs found in %s", dir)
	}
	return tables, nil
}

// NCPUs determines the core count used by an experiment. Only payu
// experiments record it in a config file this package understands; cylc
// runs must annotate the directory as path:ncpus on the command line.
func NCPUs(kind Kind, dir string) (int, error) {
	if kind == KindPayu {
		return PayuNCPUs(dir)
	}
	return 0, fmt.Errorf("cannot determine ncpus for a %s experiment: annotate the directory as %s:<ncpus>", kind, dir)
}

// ScalingSeries ingests a set of experiments of the same kind and groups the
// per-component tables into scaling series keyed by component name. ncpus
// overrides (from path:ncpus annotations) take precedence over discovery.
func ScalingSeries(kind Kind, dirs []string, ncpusOverride map[string]int) (map[string]*scaling.Series, error) {
	series := make(map[string]*scaling.Series)

	for _, dir := range dirs {
		ncpus, ok := ncpusOverride[dir]
		if !ok {
			var err error
			ncpus, err = NCPUs(kind, dir)
			if err != nil {
				return nil, err
			}
		}

		tables, err := Tables(kind, dir)
		if err != nil {
			return nil, err
		}
		for component, table := range tables {
			s, ok := series[component]
			if !ok {
				s = &scaling.Series{}
				series[component] = s
			}
			if err := s.Add(ncpus, table); err != nil {
				return nil, fmt.Errorf("component %s: %w", component, err)
			}
		}
	}
	return series, nil
}
