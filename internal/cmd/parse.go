package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ACCESS-NRI/access-profiling/internal/ingest"
	"github.com/ACCESS-NRI/access-profiling/internal/parser"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse profiling logs into a normalized table",
	Long: `Parse one or more profiling output files and print the normalized
region/metric table. The format is auto-detected per file unless --format
names one explicitly.

Examples:
  accessprof parse access-om2.out
  accessprof parse --format um atm.fort6.pe0
  accessprof parse run1/*.out --output csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "auto",
		fmt.Sprintf("log format: auto, %s", strings.Join(parser.Names(), ", ")))
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	res, err := ingest.Files(args, parseFormat)
	if err != nil {
		return err
	}

	for _, path := range args {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, res.Formats[path])
	}

	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	return renderer.Render(res.Table)
}
