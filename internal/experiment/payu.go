package experiment

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ACCESS-NRI/access-profiling/internal/parser"
)

// payuConfig is the subset of a payu config.yaml this package reads.
type payuConfig struct {
	Model     string `yaml:"model"`
	NCPUs     int    `yaml:"ncpus"`
	Submodels []struct {
		Name  string `yaml:"name"`
		NCPUs int    `yaml:"ncpus"`
	} `yaml:"submodels"`
}

// umEnv is the subset of um_env.yaml naming the UM stdout file.
type umEnv struct {
	StdoutFile string `yaml:"UM_STDOUT_FILE"`
}

// PayuNCPUs reads the core count of a payu experiment from its config.yaml.
// Configurations with submodels report the sum over submodels.
func PayuNCPUs(dir string) (int, error) {
	cfg, err := readPayuConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return 0, err
	}
	if len(cfg.Submodels) > 0 {
		total := 0
		for _, sub := range cfg.Submodels {
			total += sub.NCPUs
		}
		return total, nil
	}
	if cfg.NCPUs == 0 {
		return 0, fmt.Errorf("%s/config.yaml does not define ncpus", dir)
	}
	return cfg.NCPUs, nil
}

// PayuLogs locates profiling logs in a payu experiment directory: the payu
// job summary JSON under archive/payu_jobs, then the component logs of each
// archive/output* directory.
func PayuLogs(dir string) ([]Log, error) {
	archive := filepath.Join(dir, "archive")
	if info, err := os.Stat(archive); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("experiment %s has no archive directory", dir)
	}

	var logs []Log

	jobJSON, err := doublestar.FilepathGlob(filepath.Join(archive, "payu_jobs/*/run/*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob payu job logs in %s: %w", archive, err)
	}
	sort.Strings(jobJSON)
	if len(jobJSON) > 1 {
		log.Printf("multiple payu json logs in %s, using %s", dir, jobJSON[0])
	}
	if len(jobJSON) >= 1 {
		logs = append(logs, Log{Component: "payu", Path: jobJSON[0], Format: parser.NewPayuJSON()})
	}

	outputs, err := doublestar.FilepathGlob(filepath.Join(archive, "output*"))
	if err != nil {
		return nil, fmt.Errorf("glob output directories in %s: %w", archive, err)
	}
	sort.Strings(outputs)
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no output directories found in %s", archive)
	}
	if len(outputs) > 1 {
		log.Printf("multiple output directories in %s, later ones supersede earlier", dir)
	}
	for _, output := range outputs {
		logs = append(logs, payuComponentLogs(output)...)
	}

	return logs, nil
}

// payuComponentLogs returns the component logs present in one payu output
// directory. Layouts covered: FMS ocean logs (<model>.out for MOM5/MOM6),
// CICE at log/ice.log (OM3) or ice/ice_diag.d (ESM1.x), and the UM
// atmosphere log named by atmosphere/um_env.yaml.
func payuComponentLogs(output string) []Log {
	var logs []Log

	if cfg, err := readPayuConfig(filepath.Join(output, "config.yaml")); err == nil && cfg.Model != "" {
		oceanLog := filepath.Join(output, cfg.Model+".out")
		if isFile(oceanLog) {
			logs = append(logs, Log{Component: cfg.Model, Path: oceanLog, Format: parser.NewFMS()})
		}
	}

	for _, iceLog := range []string{
		filepath.Join(output, "log", "ice.log"),
		filepath.Join(output, "ice", "ice_diag.d"),
	} {
		if isFile(iceLog) {
			logs = append(logs, Log{Component: "cice", Path: iceLog, Format: parser.NewCICE5()})
			break
		}
	}

	envPath := filepath.Join(output, "atmosphere", "um_env.yaml")
	if raw, err := os.ReadFile(envPath); err == nil {
		var env umEnv
		if err := yaml.Unmarshal(raw, &env); err == nil && env.StdoutFile != "" {
			// PE 0 writes the timer summary.
			umLog := filepath.Join(output, "atmosphere", env.StdoutFile+"0")
			if isFile(umLog) {
				logs = append(logs,
					Log{Component: "um", Path: umLog, Format: parser.NewUM()},
					Log{Component: "um_total_walltime", Path: umLog, Format: parser.NewUMTotal()},
				)
			}
		}
	}

	return logs
}

func readPayuConfig(path string) (*payuConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payu config: %w", err)
	}
	var cfg payuConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
