package parser

import (
	"fmt"
	"strings"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// KeyVal parses the generic key=value profiling grammar:
//
//	component=solver metric=time value=3.5 [kind=duration] [unit=s]
//
// One measurement per line. `region=` is accepted as an alias for
// `component=`. Lines without all of component, metric and value are
// skipped, so the format tolerates banners and comments. An empty input
// yields zero entries, not an error.
type KeyVal struct{}

func NewKeyVal() *KeyVal { return &KeyVal{} }

func (p *KeyVal) Name() string { return "keyval" }

// Metrics returns nil: the metric set is open, the schema is inferred.
func (p *KeyVal) Metrics() []model.Metric { return nil }

func (p *KeyVal) Parse(records []model.RawRecord) ([]model.ProfilingEntry, error) {
	entries := []model.ProfilingEntry{}

	for _, rec := range records {
		line := strings.TrimSpace(rec.Text)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pairs := make(map[string]string)
		for _, tok := range strings.Fields(line) {
			k, v, ok := strings.Cut(tok, "=")
			if ok && k != "" {
				pairs[k] = v
			}
		}

		region := pairs["component"]
		if region == "" {
			region = pairs["region"]
		}
		metric, hasMetric := pairs["metric"]
		rawValue, hasValue := pairs["value"]
		if region == "" || !hasMetric || !hasValue {
			continue // not a measurement line
		}
		if metric == "" {
			return nil, &MalformedRecordError{Record: rec, Reason: "empty metric name"}
		}

		value, err := number(rec, "value", rawValue)
		if err != nil {
			return nil, err
		}

		m, err := keyvalMetric(rec, metric, pairs)
		if err != nil {
			return nil, err
		}

		e := entry(rec, region, m, value)
		if err := e.Validate(); err != nil {
			return nil, &MalformedRecordError{Record: rec, Reason: err.Error()}
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// keyvalMetric resolves the metric descriptor for a line: an explicit kind=
// wins, then the common metric catalog, then a duration default since
// timings are what profiling output overwhelmingly reports.
func keyvalMetric(rec model.RawRecord, name string, pairs map[string]string) (model.Metric, error) {
	m := model.Metric{Name: name, Kind: model.KindDuration, Unit: "s"}

	for _, known := range []model.Metric{
		model.Count, model.TMin, model.TMax, model.TAvg, model.TMed,
		model.TStd, model.TFrac, model.Grain, model.PEMin, model.PEMax,
		model.PETs, model.PEs,
	} {
		if known.Name == name {
			m = known
			break
		}
	}

	if kind, ok := pairs["kind"]; ok {
		switch model.MetricKind(kind) {
		case model.KindDuration, model.KindCount, model.KindFraction, model.KindIndex:
			m.Kind = model.MetricKind(kind)
		default:
			return model.Metric{}, &MalformedRecordError{Record: rec, Reason: fmt.Sprintf("unknown metric kind %q", kind)}
		}
	}
	if unit, ok := pairs["unit"]; ok {
		m.Unit = unit
	}
	return m, nil
}
