package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
	"github.com/ACCESS-NRI/access-profiling/internal/scaling"
)

// Renderer writes normalized profiling tables and scaling reports to an
// output stream.
type Renderer interface {
	Render(table *model.ProfilingTable) error
	RenderScaling(report *scaling.Report) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true) // cyan bold
	styleRegion  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))           // yellow
	styleValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))           // gray
	styleMissing = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
)

// TextRenderer prints tables to the terminal with aligned, colorized columns.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(table *model.ProfilingTable) error {
	headers, rows := tabulate(table)

	// Column widths over header and all cells.
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string, style func(int, string) string) string {
		out := ""
		for i, cell := range cells {
			if i > 0 {
				out += "  "
			}
			padded := fmt.Sprintf("%-*s", widths[i], cell)
			out += style(i, padded)
		}
		return out
	}

	header := line(headers, func(_ int, s string) string { return styleHeader.Render(s) })
	if _, err := fmt.Fprintln(r.w, header); err != nil {
		return err
	}

	for _, row := range rows {
		styled := line(row, func(i int, s string) string {
			switch {
			case i == 0:
				return styleRegion.Render(s)
			case row[i] == missingCell:
				return styleMissing.Render(s)
			default:
				return styleValue.Render(s)
			}
		})
		if _, err := fmt.Fprintln(r.w, styled); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) RenderScaling(report *scaling.Report) error {
	headers, rows := tabulateScaling(report)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	out := ""
	for i, h := range headers {
		if i > 0 {
			out += "  "
		}
		out += styleHeader.Render(fmt.Sprintf("%-*s", widths[i], h))
	}
	if _, err := fmt.Fprintln(r.w, out); err != nil {
		return err
	}

	for _, row := range rows {
		out = ""
		for i, cell := range row {
			if i > 0 {
				out += "  "
			}
			padded := fmt.Sprintf("%-*s", widths[i], cell)
			if i == 0 {
				out += styleRegion.Render(padded)
			} else {
				out += styleValue.Render(padded)
			}
		}
		if _, err := fmt.Fprintln(r.w, out); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints tables and reports as indented JSON documents.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON to stdout.
func NewJSONRenderer() *JSONRenderer {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(table *model.ProfilingTable) error {
	return r.enc.Encode(table)
}

func (r *JSONRenderer) RenderScaling(report *scaling.Report) error {
	return r.enc.Encode(report)
}

// ---------------------------------------------------------------------------
// CSV Renderer (wide region x metric layout for spreadsheets)
// ---------------------------------------------------------------------------

// CSVRenderer prints one row per region with one column per metric.
type CSVRenderer struct {
	w *csv.Writer
}

// NewCSVRenderer returns a Renderer that writes CSV to stdout.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{w: csv.NewWriter(os.Stdout)}
}

func (r *CSVRenderer) Render(table *model.ProfilingTable) error {
	headers, rows := tabulate(table)
	if err := r.w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.w.Write(row); err != nil {
			return err
		}
	}
	r.w.Flush()
	return r.w.Error()
}

func (r *CSVRenderer) RenderScaling(report *scaling.Report) error {
	headers, rows := tabulateScaling(report)
	if err := r.w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.w.Write(row); err != nil {
			return err
		}
	}
	r.w.Flush()
	return r.w.Error()
}

// ---------------------------------------------------------------------------
// Shared tabulation
// ---------------------------------------------------------------------------

const missingCell = "-"

// tabulate flattens a table into a header row and one wide row per region.
// Metric columns keep schema order; units appear in the header.
func tabulate(table *model.ProfilingTable) (headers []string, rows [][]string) {
	headers = []string{"region"}
	for _, col := range table.Columns {
		name := col.Name
		if col.Unit != "" {
			name = fmt.Sprintf("%s (%s)", col.Name, col.Unit)
		}
		headers = append(headers, name)
	}

	for _, region := range table.Regions() {
		row := []string{region}
		for _, col := range table.Columns {
			v, ok := table.Value(region, col.Name)
			if !ok {
				row = append(row, missingCell)
				continue
			}
			row = append(row, formatValue(col.Kind, v))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func tabulateScaling(report *scaling.Report) (headers []string, rows [][]string) {
	headers = []string{"region"}
	for _, n := range report.NCPUs {
		headers = append(headers,
			fmt.Sprintf("t(%d) (s)", n),
			fmt.Sprintf("speedup(%d)", n),
			fmt.Sprintf("efficiency(%d) (%%)", n),
		)
	}

	for _, rs := range report.Regions {
		row := []string{rs.Region}
		for i := range report.NCPUs {
			row = append(row,
				formatValue(model.KindDuration, rs.Times[i]),
				strconv.FormatFloat(rs.Speedup[i], 'f', 2, 64),
				strconv.FormatFloat(rs.Efficiency[i], 'f', 1, 64),
			)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// formatValue prints counts and ranks without a fractional part and
// everything else with the shortest exact decimal form.
func formatValue(kind model.MetricKind, v float64) string {
	switch kind {
	case model.KindCount, model.KindIndex:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
