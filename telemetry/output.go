package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/invaders/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir string

	telemetry csvFile
	perf      csvFile
	bookmarks csvFile
	runs      csvFile
}

// csvFile is one CSV output that writes its header with the first record.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

// writeRecord appends one record, with headers on the first write.
func writeRecord[T any](c *csvFile, record T) error {
	records := []T{record}

	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", c.name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []*csvFile{&om.telemetry, &om.perf, &om.bookmarks, &om.runs}
	names := []string{"telemetry.csv", "perf.csv", "bookmarks.csv", "runs.csv"}

	for i, c := range files {
		f, err := os.Create(filepath.Join(dir, names[i]))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", names[i], err)
		}
		c.name = names[i]
		c.f = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return writeRecord(&om.telemetry, stats)
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	return writeRecord(&om.perf, stats.ToCSV(windowEnd))
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return writeRecord(&om.bookmarks, b)
}

// WriteRun writes a finished run record to runs.csv.
func (om *OutputManager) WriteRun(r RunStats) error {
	if om == nil {
		return nil
	}
	return writeRecord(&om.runs, r)
}

// WriteHighScores saves the high score table as JSON.
func (om *OutputManager) WriteHighScores(hs *HighScores) error {
	if om == nil || hs == nil {
		return nil
	}
	return hs.Save(filepath.Join(om.dir, "high_scores.json"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{&om.telemetry, &om.perf, &om.bookmarks, &om.runs} {
		if c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.f = nil
	}
	return firstErr
}
