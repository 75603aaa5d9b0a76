package ingest

import (
	"fmt"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
	"github.com/ACCESS-NRI/access-profiling/internal/normalize"
	"github.com/ACCESS-NRI/access-profiling/internal/parser"
	"github.com/ACCESS-NRI/access-profiling/internal/reader"
)

// Result is the outcome of one ingestion run.
type Result struct {
	Table   *model.ProfilingTable
	Formats map[string]string // source path -> format that matched
	Records int               // raw records read
	Skipped int               // records that contributed no entry
}

// File reads one profiling output file and normalizes it into a table.
// formatName selects the parser; "auto" (or empty) tries each format in
// detection order.
func File(path, formatName string) (*Result, error) {
	return Files([]string{path}, formatName)
}

// Files ingests several files into a single table. Each file is parsed on
// its own (auto-detection may pick different formats per file); the entries
// are normalized together, so all files must agree on the schema.
func Files(paths []string, formatName string) (*Result, error) {
	res := &Result{Formats: make(map[string]string)}

	var entries []model.ProfilingEntry
	for _, path := range paths {
		records, err := reader.ReadAll(path)
		if err != nil {
			return nil, err
		}
		res.Records += len(records)

		var (
			parsed []model.ProfilingEntry
			format parser.Format
		)
		if formatName == "" || formatName == "auto" {
			parsed, format, err = parser.Detect(records)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		} else {
			format, err = parser.Lookup(formatName)
			if err != nil {
				return nil, err
			}
			parsed, err = format.Parse(records)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		res.Formats[path] = format.Name()
		res.Skipped += len(records) - contributingLines(path, parsed)
		entries = append(entries, parsed...)
	}

	table, err := normalize.Table(entries)
	if err != nil {
		return nil, err
	}
	res.Table = table
	return res, nil
}

// contributingLines counts the distinct source lines of path that produced
// at least one entry.
func contributingLines(path string, entries []model.ProfilingEntry) int {
	lines := make(map[int]bool)
	for _, e := range entries {
		if e.Source == path && e.Line > 0 {
			lines[e.Line] = true
		}
	}
	return len(lines)
}
