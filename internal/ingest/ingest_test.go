package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ACCESS-NRI/access-profiling/internal/normalize"
	"github.com/ACCESS-NRI/access-profiling/internal/parser"
	"github.com/ACCESS-NRI/access-profiling/internal/reader"
)

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileAutoDetect(t *testing.T) {
	path := writeLog(t, "run.log", `component=solver metric=time value=3.5
component=solver metric=iterations value=42 kind=count unit=1
component=io metric=time value=0.25
`)

	res, err := File(path, "auto")
	if err != nil {
		t.Fatal(err)
	}
	if res.Formats[path] != "keyval" {
		t.Errorf("expected keyval, got %s", res.Formats[path])
	}
	if res.Table.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", res.Table.Len())
	}
	if res.Records != 3 {
		t.Errorf("expected 3 records read, got %d", res.Records)
	}

	if v, ok := res.Table.Value("solver", "time"); !ok || v != 3.5 {
		t.Errorf("solver time: got %v (present %v)", v, ok)
	}
}

func TestFileExplicitFormat(t *testing.T) {
	path := writeLog(t, "run.log", "component=solver metric=time value=1.0\n")

	// The file is keyval; asking for fms must fail with ErrNoData.
	_, err := File(path, "fms")
	if !errors.Is(err, parser.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	if _, err := File(path, "keyval"); err != nil {
		t.Fatal(err)
	}
}

func TestFileUnknownFormat(t *testing.T) {
	path := writeLog(t, "run.log", "x\n")
	if _, err := File(path, "nonsense"); err == nil {
		t.Error("expected error for unknown format name")
	}
}

func TestFileNotFound(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.log"), "auto")
	if !errors.Is(err, reader.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestFilesMergeAndSkipCount(t *testing.T) {
	a := writeLog(t, "a.log", `banner line
component=solver metric=time value=1.0
`)
	b := writeLog(t, "b.log", "component=io metric=time value=2.0\n")

	res, err := Files([]string{a, b}, "auto")
	if err != nil {
		t.Fatal(err)
	}
	if res.Table.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", res.Table.Len())
	}
	// The banner line contributed nothing.
	if res.Skipped != 1 {
		t.Errorf("expected 1 skipped record, got %d", res.Skipped)
	}

	regions := res.Table.Regions()
	if len(regions) != 2 || regions[0] != "io" || regions[1] != "solver" {
		t.Errorf("unexpected regions: %v", regions)
	}
}

func TestFilesSchemaConflict(t *testing.T) {
	a := writeLog(t, "a.log", "component=solver metric=steps value=1 kind=count unit=1\n")
	b := writeLog(t, "b.log", "component=solver metric=steps value=2.0 kind=duration unit=s\n")

	_, err := Files([]string{a, b}, "auto")

	var conflict *normalize.SchemaConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SchemaConflictError, got %v", err)
	}
}

func TestFilesMalformed(t *testing.T) {
	path := writeLog(t, "a.log", "component=solver metric=time value=oops\n")

	_, err := Files([]string{path}, "auto")

	var malformed *parser.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
}
