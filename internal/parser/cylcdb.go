package parser

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
	"github.com/ACCESS-NRI/access-profiling/internal/reader"
)

// CylcDB reads task runtimes from the cylc-suite.db sqlite database that
// cylc maintains alongside the suite log. Each finished task job becomes one
// region named <task>_cycle<cycle> whose value is the time between job start
// and job exit. This is not a line format: it reads the database file
// directly and is therefore selected explicitly, never auto-detected.
type CylcDB struct{}

func NewCylcDB() *CylcDB { return &CylcDB{} }

func (p *CylcDB) Name() string { return "cylcdb" }

func (p *CylcDB) Metrics() []model.Metric { return []model.Metric{model.TMax} }

const cylcTaskQuery = `
SELECT cycle, name, time_run, time_run_exit, run_status
FROM task_jobs
ORDER BY name, cycle`

// ParseFile opens the database at path and returns one entry per finished
// task job. Tasks that have not exited yet (NULL times) are skipped; a task
// with unparseable timestamps fails the parse.
func (p *CylcDB) ParseFile(path string) ([]model.ProfilingEntry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", reader.ErrSourceNotFound, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cylc database %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(cylcTaskQuery)
	if err != nil {
		return nil, fmt.Errorf("cylc database %s has no task_jobs table with the expected columns: %w", path, err)
	}
	defer rows.Close()

	rec := model.RawRecord{Source: path}
	var entries []model.ProfilingEntry
	for rows.Next() {
		var (
			cycle, name     string
			started, exited sql.NullString
			runStatus       sql.NullInt64
		)
		if err := rows.Scan(&cycle, &name, &started, &exited, &runStatus); err != nil {
			return nil, fmt.Errorf("read cylc database %s: %w", path, err)
		}
		if !started.Valid || !exited.Valid {
			continue // job still running or never started
		}

		start, err := time.Parse(time.RFC3339, started.String)
		if err != nil {
			return nil, &MalformedRecordError{Record: rec, Reason: fmt.Sprintf("task %s cycle %s has invalid start time %q", name, cycle, started.String)}
		}
		end, err := time.Parse(time.RFC3339, exited.String)
		if err != nil {
			return nil, &MalformedRecordError{Record: rec, Reason: fmt.Sprintf("task %s cycle %s has invalid exit time %q", name, cycle, exited.String)}
		}

		region := fmt.Sprintf("%s_cycle%s", name, cycle)
		entries = append(entries, entry(rec, region, model.TMax, float64(int64(end.Sub(start).Seconds()))))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cylc database %s: %w", path, err)
	}

	if len(entries) == 0 {
		return nil, ErrNoData
	}
	return entries, nil
}
