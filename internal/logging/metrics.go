package logging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"snakeevo/internal/ga"
)

// Metrics records generation summaries to generations.csv and
// generations.jsonl inside a run directory, and to the logger.
type Metrics struct {
	log       *slog.Logger
	csvFile   *os.File
	jsonFile  *os.File
	jsonEnc   *json.Encoder
	wroteHead bool
}

// NewMetrics creates dir if needed and opens the metric files in it.
func NewMetrics(dir string, log *slog.Logger) (*Metrics, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating generations.csv: %w", err)
	}
	jsonFile, err := os.Create(filepath.Join(dir, "generations.jsonl"))
	if err != nil {
		csvFile.Close()
		return nil, fmt.Errorf("creating generations.jsonl: %w", err)
	}

	return &Metrics{
		log:      log,
		csvFile:  csvFile,
		jsonFile: jsonFile,
		jsonEnc:  json.NewEncoder(jsonFile),
	}, nil
}

// Record appends one generation summary to both files and logs it at info
// level when verbose, debug otherwise.
func (m *Metrics) Record(s ga.Summary, verbose bool) error {
	records := []ga.Summary{s}
	if !m.wroteHead {
		if err := gocsv.Marshal(records, m.csvFile); err != nil {
			return fmt.Errorf("writing generations.csv: %w", err)
		}
		m.wroteHead = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, m.csvFile); err != nil {
			return fmt.Errorf("writing generations.csv: %w", err)
		}
	}

	if err := m.jsonEnc.Encode(s); err != nil {
		return fmt.Errorf("writing generations.jsonl: %w", err)
	}

	level := slog.LevelDebug
	if verbose {
		level = slog.LevelInfo
	}
	m.log.Log(context.Background(), level, "generation", "summary", s)
	return nil
}

// Close closes the metric files
func (m *Metrics) Close() error {
	return errors.Join(m.csvFile.Close(), m.jsonFile.Close())
}
