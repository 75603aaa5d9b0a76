package experiment

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ACCESS-NRI/access-profiling/internal/parser"
)

// CylcLogs locates profiling logs in a cylc-rose run directory: the suite
// log (pipeline walltime), the cylc-suite.db task runtimes, and per-task
// job logs under log/job/<cycle>/<task>/NN/job.out. Task logs are tried
// against the parsers a cylc workflow is known to embed (UM timer output);
// tasks whose logs carry none of that data are dropped at parse time.
func CylcLogs(dir string) ([]Log, error) {
	logs := []Log{
		{Component: "cylc_suite_log", Path: filepath.Join(dir, "log", "suite", "log"), Format: parser.NewCylc()},
		{Component: "cylc_tasks", Path: filepath.Join(dir, "cylc-suite.db"), DB: true},
	}

	jobdir := filepath.Join(dir, "log", "job")
	matches, err := doublestar.FilepathGlob(filepath.Join(jobdir, "*/*/NN/job.out"))
	if err != nil {
		return nil, fmt.Errorf("glob job logs in %s: %w", jobdir, err)
	}
	sort.Strings(matches)

	for _, jobLog := range matches {
		// .../log/job/<cycle>/<task>/NN/job.out
		parts := strings.Split(filepath.ToSlash(jobLog), "/")
		if len(parts) < 4 {
			continue
		}
		cycle, task := parts[len(parts)-4], parts[len(parts)-3]

		for _, format := range []parser.Format{parser.NewUM(), parser.NewUMTotal()} {
			logs = append(logs, Log{
				Component: fmt.Sprintf("%s_cycle%s_%s", task, cycle, format.Name()),
				Path:      jobLog,
				Format:    format,
				Optional:  true,
			})
		}
	}

	return logs, nil
}
