package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ACCESS-NRI/access-profiling/internal/experiment"
)

var (
	scalingKind      string
	scalingComponent string
	scalingMetric    string
	scalingRegions   []string
)

var scalingCmd = &cobra.Command{
	Use:   "scaling [dirs...]",
	Short: "Compute speedup and efficiency across experiment runs",
	Long: `Ingest several experiment directories of the same model run at
different core counts and report parallel speedup and efficiency per region.

Payu experiments carry their core count in config.yaml; cylc runs must be
annotated on the command line as dir:ncpus.

Examples:
  accessprof scaling run-48cpu run-96cpu run-192cpu
  accessprof scaling --kind cylc u-ab123:240 u-ab124:480 --component um
  accessprof scaling run-1x run-2x --metric tavg --regions "Ocean,Ice"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runScaling,
}

func init() {
	scalingCmd.Flags().StringVarP(&scalingKind, "kind", "k", "payu", "experiment kind: payu, cylc")
	scalingCmd.Flags().StringVar(&scalingComponent, "component", "", "component to analyse (required when experiments hold several)")
	scalingCmd.Flags().StringVarP(&scalingMetric, "metric", "m", "tmax", "duration metric to scale")
	scalingCmd.Flags().StringSliceVarP(&scalingRegions, "regions", "r", nil, "regions to report (default: all regions of the smallest run)")
	rootCmd.AddCommand(scalingCmd)
}

func runScaling(cmd *cobra.Command, args []string) error {
	kind, err := experiment.ParseKind(scalingKind)
	if err != nil {
		return err
	}

	dirs, overrides, err := splitNCPUsAnnotations(args)
	if err != nil {
		return err
	}

	series, err := experiment.ScalingSeries(kind, dirs, overrides)
	if err != nil {
		return err
	}

	component := scalingComponent
	if component == "" {
		if len(series) > 1 {
			names := make([]string, 0, len(series))
			for name := range series {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("experiments hold several components (%s): pick one with --component", strings.Join(names, ", "))
		}
		for name := range series {
			component = name
		}
	}

	s, ok := series[component]
	if !ok {
		return fmt.Errorf("component %q not found in experiments", component)
	}
	if s.Len() < 2 {
		return fmt.Errorf("component %q appears in only %d experiment(s), scaling needs at least two", component, s.Len())
	}

	report, err := s.Report(scalingRegions, scalingMetric)
	if err != nil {
		return err
	}

	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	return renderer.RenderScaling(report)
}

// splitNCPUsAnnotations separates dir:ncpus arguments into plain directories
// and a core-count override map. A bare dir is kept as-is; its core count is
// discovered from the experiment configuration later.
func splitNCPUsAnnotations(args []string) ([]string, map[string]int, error) {
	dirs := make([]string, 0, len(args))
	overrides := make(map[string]int)

	for _, arg := range args {
		idx := strings.LastIndex(arg, ":")
		if idx < 0 {
			dirs = append(dirs, arg)
			continue
		}
		n, err := strconv.Atoi(arg[idx+1:])
		if err != nil || n <= 0 {
			return nil, nil, fmt.Errorf("bad ncpus annotation %q: want dir:<positive integer>", arg)
		}
		dir := arg[:idx]
		dirs = append(dirs, dir)
		overrides[dir] = n
	}
	return dirs, overrides, nil
}
