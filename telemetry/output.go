package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/murmur/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	perfFile  *os.File
	flockFile *os.File

	// Track if headers have been written
	perfHeaderWritten  bool
	flockHeaderWritten bool
}

// NewOutputManager creates an output manager rooted at dir.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, "flock.csv"))
	if err != nil {
		om.perfFile.Close()
		return nil, fmt.Errorf("creating flock.csv: %w", err)
	}
	om.flockFile = f

	return om, nil
}

// WriteConfig saves the effective configuration alongside the CSVs so a run
// can be reproduced.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf appends a perf window record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStatsCSV) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf.csv: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf.csv: %w", err)
	}
	return nil
}

// WriteFlock appends a flock stats record to flock.csv.
func (om *OutputManager) WriteFlock(stats FlockStats) error {
	if om == nil {
		return nil
	}

	records := []FlockStats{stats}
	if !om.flockHeaderWritten {
		if err := gocsv.Marshal(records, om.flockFile); err != nil {
			return fmt.Errorf("writing flock.csv: %w", err)
		}
		om.flockHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.flockFile); err != nil {
		return fmt.Errorf("writing flock.csv: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if err := om.perfFile.Close(); err != nil {
		firstErr = err
	}
	if err := om.flockFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
