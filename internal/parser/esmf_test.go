package parser

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const esmfFixture = `Region                           PETs   PEs    Count    Mean (s)    Min (s)     Min PET Max (s)     Max PET
  [ESMF]                         1300   1300   1        1925.9335   1918.1666   773     1934.6852   508
    [OCN] RunPhase1              1300   1300   960      1850.4170   1848.3905   1023    1858.6404   364
    [ATM-TO-MED] RunPhase1       1300   1300   960      0.0046      0.0026      388     0.0163      186`

func TestESMFParse(t *testing.T) {
	entries, err := NewESMF().Parse(recs(esmfFixture))
	if err != nil {
		t.Fatal(err)
	}
	// Three regions, eight metrics each. The header row fails the numeric
	// conversion and is skipped.
	if len(entries) != 24 {
		t.Fatalf("expected 24 entries, got %d", len(entries))
	}

	if e, ok := findEntry(entries, "[OCN] RunPhase1", "tavg"); !ok || e.Value != 1850.4170 {
		t.Errorf("tavg: got %+v", e)
	}
	if e, ok := findEntry(entries, "[OCN] RunPhase1", "pemin"); !ok || e.Value != 1023 {
		t.Errorf("pemin: got %+v", e)
	}
	if e, ok := findEntry(entries, "[ESMF]", "pets"); !ok || e.Value != 1300 {
		t.Errorf("pets: got %+v", e)
	}
	if e, ok := findEntry(entries, "[ESMF]", "count"); !ok || e.Value != 1 {
		t.Errorf("count: got %+v", e)
	}
}

func TestESMFMergesRepeatedRegions(t *testing.T) {
	input := `  [MED-TO-ATM] RunPhase1        10   10   10      2.0   1.0    5    4.0    7
  [MED-TO-ATM] RunPhase1        10   10   30      4.0   0.5    2    3.0    9`

	entries, err := NewESMF().Parse(recs(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 8 {
		t.Fatalf("expected 8 merged entries, got %d", len(entries))
	}

	// Count-weighted mean: (2.0*10 + 4.0*30) / 40 = 3.5.
	if e, ok := findEntry(entries, "[MED-TO-ATM] RunPhase1", "tavg"); !ok || math.Abs(e.Value-3.5) > 1e-12 {
		t.Errorf("merged tavg: got %+v", e)
	}
	if e, _ := findEntry(entries, "[MED-TO-ATM] RunPhase1", "count"); e.Value != 40 {
		t.Errorf("merged count: got %v", e.Value)
	}
	// Overall extrema keep the PET they occurred on.
	if e, _ := findEntry(entries, "[MED-TO-ATM] RunPhase1", "tmin"); e.Value != 0.5 {
		t.Errorf("merged tmin: got %v", e.Value)
	}
	if e, _ := findEntry(entries, "[MED-TO-ATM] RunPhase1", "pemin"); e.Value != 2 {
		t.Errorf("merged pemin: got %v", e.Value)
	}
	if e, _ := findEntry(entries, "[MED-TO-ATM] RunPhase1", "tmax"); e.Value != 4.0 {
		t.Errorf("merged tmax: got %v", e.Value)
	}
	if e, _ := findEntry(entries, "[MED-TO-ATM] RunPhase1", "pemax"); e.Value != 7 {
		t.Errorf("merged pemax: got %v", e.Value)
	}
}

func TestESMFRepeatedRegionDifferentPEs(t *testing.T) {
	input := `  [MED-TO-ATM] RunPhase1        10   10   10      2.0   1.0    5    4.0    7
  [MED-TO-ATM] RunPhase1        20   20   30      4.0   0.5    2    3.0    9`

	_, err := NewESMF().Parse(recs(input))
	if err == nil || !strings.Contains(err.Error(), "different PETs/PEs") {
		t.Fatalf("expected PETs/PEs mismatch error, got %v", err)
	}
}

func TestESMFNoData(t *testing.T) {
	_, err := NewESMF().Parse(recs("no summary here\njust text"))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
