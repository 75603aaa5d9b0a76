package experiment

import (
	"database/sql"
	"path/filepath"
	"testing"
)

const cylcSuiteLog = `2025-10-17T00:51:12Z INFO - Suite server: url=tcp://node:43043 pid=152868
2025-10-17T01:36:30Z INFO - DONE`

// makeCylcExperiment lays out a cylc run directory: suite log, task database
// and two job logs, only one of which carries UM profiling output.
func makeCylcExperiment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write(t, filepath.Join(dir, "log", "suite", "log"), cylcSuiteLog)
	write(t, filepath.Join(dir, "log", "job", "19000101", "coupled", "NN", "job.out"), umLog)
	write(t, filepath.Join(dir, "log", "job", "19000101", "housekeeping", "NN", "job.out"), "cleaned 4 files\n")

	db, err := sql.Open("sqlite", filepath.Join(dir, "cylc-suite.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE task_jobs (
		cycle TEXT, name TEXT, time_run TEXT, time_run_exit TEXT, run_status INTEGER)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(
		`INSERT INTO task_jobs VALUES ('19000101', 'coupled', '2025-10-17T00:52:00Z', '2025-10-17T01:30:00Z', 0)`); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestCylcLogs(t *testing.T) {
	dir := makeCylcExperiment(t)

	logs, err := CylcLogs(dir)
	if err != nil {
		t.Fatal(err)
	}

	byComponent := make(map[string]Log)
	for _, l := range logs {
		byComponent[l.Component] = l
	}

	if _, ok := byComponent["cylc_suite_log"]; !ok {
		t.Error("missing suite log")
	}
	if l, ok := byComponent["cylc_tasks"]; !ok || !l.DB {
		t.Error("missing task database log")
	}
	// Per-task logs are registered as optional: most tasks carry no
	// profiling output.
	if l, ok := byComponent["coupled_cycle19000101_um"]; !ok || !l.Optional {
		t.Error("missing optional coupled task log")
	}
}

func TestCylcTables(t *testing.T) {
	dir := makeCylcExperiment(t)

	tables, err := Tables(KindCylc, dir)
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := tables["cylc_suite_log"].Value("pipeline_elapsed_time", "tmax"); !ok || v != 2718 {
		t.Errorf("pipeline elapsed: got %v (present %v)", v, ok)
	}
	if v, ok := tables["cylc_tasks"].Value("coupled_cycle19000101", "tmax"); !ok || v != 2280 {
		t.Errorf("coupled task runtime: got %v (present %v)", v, ok)
	}
	if _, ok := tables["coupled_cycle19000101_um"]; !ok {
		t.Error("expected UM table from the coupled job log")
	}
	if _, ok := tables["coupled_cycle19000101_um-total"]; !ok {
		t.Error("expected UM total walltime from the coupled job log")
	}

	// The housekeeping log carries no profiling data; its optional entries
	// must be dropped, not fail the whole experiment.
	if _, ok := tables["housekeeping_cycle19000101_um"]; ok {
		t.Error("housekeeping task must not produce a table")
	}
}
