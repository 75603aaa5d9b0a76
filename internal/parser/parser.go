package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

// ErrNoData reports that a format found none of its profiling data in the
// input. Auto-detection treats it as "try the next format".
var ErrNoData = errors.New("no profiling data found")

// MalformedRecordError reports a line that structurally matches a format but
// carries an invalid value. It aborts the parse of that input: a partial or
// ambiguous table is worse than an explicit failure.
type MalformedRecordError struct {
	Record model.RawRecord
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at %s: %s", e.Record.Location(), e.Reason)
}

// Format recognizes and decodes one profiling output family. Implementations
// skip lines that do not belong to their grammar; only structurally matching
// lines with invalid values fail the parse.
type Format interface {
	// Name is the identifier used to select the format from configuration.
	Name() string
	// Metrics lists the metrics the format can report. Formats with an open
	// metric set (keyval) return nil.
	Metrics() []model.Metric
	// Parse decodes the record sequence into profiling entries. Returns
	// ErrNoData when none of the format's data is present.
	Parse(records []model.RawRecord) ([]model.ProfilingEntry, error)
}

// Formats returns the supported formats in auto-detection order. The generic
// keyval format goes last since almost anything key-shaped matches it.
func Formats() []Format {
	return []Format{
		NewFMS(),
		NewUM(),
		NewUMTotal(),
		NewESMF(),
		NewCICE5(),
		NewCylc(),
		NewPayuJSON(),
		NewKeyVal(),
	}
}

// Lookup returns the format registered under name, or an error listing the
// known names.
func Lookup(name string) (Format, error) {
	for _, f := range Formats() {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown format %q (known: %v)", name, Names())
}

// Names returns the names of all supported formats in detection order.
func Names() []string {
	var names []string
	for _, f := range Formats() {
		names = append(names, f.Name())
	}
	return names
}

// Detect tries each format in order and returns the entries from the first
// one that finds data, along with the format that matched. A malformed
// record fails detection immediately: the input clearly belongs to that
// format, it is just broken.
func Detect(records []model.RawRecord) ([]model.ProfilingEntry, Format, error) {
	for _, f := range Formats() {
		entries, err := f.Parse(records)
		if err == nil {
			return entries, f, nil
		}
		var malformed *MalformedRecordError
		if errors.As(err, &malformed) {
			return nil, f, err
		}
		if !errors.Is(err, ErrNoData) {
			return nil, f, err
		}
	}
	return nil, nil, ErrNoData
}

// number parses a numeric field, converting failures into a
// MalformedRecordError pinned to the offending record.
func number(rec model.RawRecord, field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &MalformedRecordError{Record: rec, Reason: fmt.Sprintf("%s %q is not a number", field, s)}
	}
	return v, nil
}

// integer is like number but for fields that must be whole (PE ranks, counts).
func integer(rec model.RawRecord, field, s string) (float64, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &MalformedRecordError{Record: rec, Reason: fmt.Sprintf("%s %q is not an integer", field, s)}
	}
	return float64(v), nil
}

// entry builds a ProfilingEntry for a region/metric pair located at rec.
func entry(rec model.RawRecord, region string, m model.Metric, value float64) model.ProfilingEntry {
	return model.ProfilingEntry{
		Region: region,
		Metric: m.Name,
		Kind:   m.Kind,
		Unit:   m.Unit,
		Value:  value,
		Source: rec.Source,
		Line:   rec.Line,
	}
}
