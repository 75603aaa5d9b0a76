package experiment

import (
	"os"
	"path/filepath"
	"testing"
)

const fmsLog = `                                          hits          tmin          tmax          tavg          tstd  tfrac grain pemin pemax
Total runtime                                1    138.600364    138.600366    138.600365      0.000001  1.000     0     0    11
Ocean                                        1     85.382477     87.619486     86.242434      0.634545  0.622    11     0    11
 MPP_STACK high water mark=           0`

const ciceLog = `Timer   1:     Total    8133.00 seconds
  Timer stats (node): min =     8132.99 seconds
                      max =     8133.00 seconds
                      mean=     8132.99 seconds`

const umLog = ` MPP : Inclusive timer summary
 WALLCLOCK  TIMES
 ROUTINE                   MEAN   MEDIAN       SD   % of mean      MAX   (PE)      MIN   (PE)
  1 AS3 Atmos_Phys2        1308.30  1308.30     0.02       0.00%  1308.33 ( 118)  1308.26 ( 221)
 Maximum Elapsed Wallclock Time:    3944.076`

const payuJob = `{"timings": {"payu_model_run_duration_seconds": 6776.044, "payu_duration_seconds": 6837.84}}`

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// makePayuExperiment lays out a payu run directory with ocean, ice and
// atmosphere logs plus the payu job summary.
func makePayuExperiment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write(t, filepath.Join(dir, "config.yaml"), `model: access
submodels:
  - name: ocean
    ncpus: 960
  - name: ice
    ncpus: 120
`)

	output := filepath.Join(dir, "archive", "output000")
	write(t, filepath.Join(output, "config.yaml"), "model: mom5\n")
	write(t, filepath.Join(output, "mom5.out"), fmsLog)
	write(t, filepath.Join(output, "ice", "ice_diag.d"), ciceLog)
	write(t, filepath.Join(output, "atmosphere", "um_env.yaml"), "UM_STDOUT_FILE: atm.fort6.pe\n")
	write(t, filepath.Join(output, "atmosphere", "atm.fort6.pe0"), umLog)
	write(t, filepath.Join(dir, "archive", "payu_jobs", "0001", "run", "env.json"), payuJob)

	return dir
}

func TestPayuNCPUsSubmodels(t *testing.T) {
	dir := makePayuExperiment(t)

	n, err := PayuNCPUs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1080 {
		t.Errorf("expected 1080 cpus (sum over submodels), got %d", n)
	}
}

func TestPayuNCPUsFlat(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "config.yaml"), "model: mom5\nncpus: 240\n")

	n, err := PayuNCPUs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 240 {
		t.Errorf("expected 240, got %d", n)
	}
}

func TestPayuNCPUsMissing(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "config.yaml"), "model: mom5\n")

	if _, err := PayuNCPUs(dir); err == nil {
		t.Error("expected error when config defines no ncpus")
	}
}

func TestPayuLogs(t *testing.T) {
	dir := makePayuExperiment(t)

	logs, err := PayuLogs(dir)
	if err != nil {
		t.Fatal(err)
	}

	components := make(map[string]bool)
	for _, l := range logs {
		components[l.Component] = true
	}
	for _, want := range []string{"payu", "mom5", "cice", "um", "um_total_walltime"} {
		if !components[want] {
			t.Errorf("missing component %s (found %v)", want, components)
		}
	}
}

func TestPayuLogsNoArchive(t *testing.T) {
	if _, err := PayuLogs(t.TempDir()); err == nil {
		t.Error("expected error for a directory without an archive")
	}
}

func TestPayuTables(t *testing.T) {
	dir := makePayuExperiment(t)

	tables, err := Tables(KindPayu, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 5 {
		t.Fatalf("expected 5 component tables, got %d", len(tables))
	}

	ocean := tables["mom5"]
	if v, ok := ocean.Value("Ocean", "tmax"); !ok || v != 87.619486 {
		t.Errorf("mom5 Ocean tmax: got %v (present %v)", v, ok)
	}
	if v, ok := tables["cice"].Value("Total", "tavg"); !ok || v != 8132.99 {
		t.Errorf("cice Total tavg: got %v (present %v)", v, ok)
	}
	if v, ok := tables["um_total_walltime"].Value("um_total_walltime", "tmax"); !ok || v != 3944.076 {
		t.Errorf("um total walltime: got %v (present %v)", v, ok)
	}
	if v, ok := tables["payu"].Value("payu_duration_seconds", "tmax"); !ok || v != 6837.84 {
		t.Errorf("payu duration: got %v (present %v)", v, ok)
	}
}

func TestScalingSeriesWithOverrides(t *testing.T) {
	a := makePayuExperiment(t)
	b := makePayuExperiment(t)

	// Same fixture twice: distinguish the runs by overriding core counts.
	series, err := ScalingSeries(KindPayu, []string{a, b}, map[string]int{a: 540, b: 1080})
	if err != nil {
		t.Fatal(err)
	}

	s, ok := series["mom5"]
	if !ok {
		t.Fatal("missing mom5 series")
	}
	ncpus := s.NCPUs()
	if len(ncpus) != 2 || ncpus[0] != 540 || ncpus[1] != 1080 {
		t.Errorf("expected [540 1080], got %v", ncpus)
	}
}

func TestNCPUsCylcNeedsAnnotation(t *testing.T) {
	if _, err := NCPUs(KindCylc, t.TempDir()); err == nil {
		t.Error("expected error: cylc core counts must be annotated")
	}
}

func TestParseKind(t *testing.T) {
	if _, err := ParseKind("payu"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseKind("slurm"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
