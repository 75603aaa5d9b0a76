package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
	"github.com/ACCESS-NRI/access-profiling/internal/normalize"
	"github.com/ACCESS-NRI/access-profiling/internal/scaling"
)

func sampleTable(t *testing.T) *model.ProfilingTable {
	t.Helper()

	entries := []model.ProfilingEntry{
		{Region: "Ocean", Metric: "tmax", Kind: model.KindDuration, Unit: "s", Value: 87.5},
		{Region: "Ocean", Metric: "count", Kind: model.KindCount, Unit: "1", Value: 12},
		{Region: "Ice", Metric: "tmax", Kind: model.KindDuration, Unit: "s", Value: 30.25},
	}
	table, err := normalize.Table(entries)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestCSVRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer := &CSVRenderer{w: csv.NewWriter(&buf)}

	if err := renderer.Render(sampleTable(t)); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}
	// Header plus one wide row per region.
	if len(rows) != 3 {
		t.Fatalf("expected 3 CSV rows, got %d", len(rows))
	}

	header := rows[0]
	if header[0] != "region" || header[1] != "tmax (s)" || header[2] != "count (1)" {
		t.Errorf("unexpected header: %v", header)
	}

	// Regions in table order; Ice has no count value.
	if rows[1][0] != "Ice" || rows[1][1] != "30.25" || rows[1][2] != "-" {
		t.Errorf("unexpected Ice row: %v", rows[1])
	}
	if rows[2][0] != "Ocean" || rows[2][2] != "12" {
		t.Errorf("unexpected Ocean row: %v", rows[2])
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer := &JSONRenderer{enc: json.NewEncoder(&buf)}

	if err := renderer.Render(sampleTable(t)); err != nil {
		t.Fatal(err)
	}

	var got model.ProfilingTable
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}
	if len(got.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(got.Rows))
	}
	if len(got.Columns) != 2 {
		t.Errorf("expected 2 columns, got %d", len(got.Columns))
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer := &TextRenderer{w: &buf}

	if err := renderer.Render(sampleTable(t)); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"region", "tmax (s)", "Ocean", "Ice", "30.25"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderScalingCSV(t *testing.T) {
	report := &scaling.Report{
		Metric: "tmax",
		Unit:   "s",
		NCPUs:  []int{2, 4},
		Regions: []scaling.RegionScaling{
			{Region: "Ocean", Times: []float64{100, 60}, Speedup: []float64{1, 100.0 / 60}, Efficiency: []float64{100, 83.33}},
		},
	}

	var buf bytes.Buffer
	renderer := &CSVRenderer{w: csv.NewWriter(&buf)}
	if err := renderer.RenderScaling(report); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 CSV rows, got %d", len(rows))
	}
	if rows[0][1] != "t(2) (s)" || rows[0][2] != "speedup(2)" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Ocean" || rows[1][1] != "100" || rows[1][2] != "1.00" {
		t.Errorf("unexpected row: %v", rows[1])
	}
}
