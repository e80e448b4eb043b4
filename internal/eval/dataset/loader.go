package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader reads labeled records from a dataset file
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load loads all records from a dataset file (JSONL or Parquet)
func (l *Loader) Load() ([]LabeledRecord, error) {
	return l.LoadSample(-1)
}

// LoadSample loads up to limit records. A negative limit loads everything.
func (l *Loader) LoadSample(limit int) ([]LabeledRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	switch ext {
	case ".parquet":
		return l.loadParquet(limit)
	case ".jsonl", ".json":
		return l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

// loadJSONL loads records from a JSONL file
func (l *Loader) loadJSONL(limit int) ([]LabeledRecord, error) {
	slog.Debug("Opening JSONL file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []LabeledRecord
	scanner := bufio.NewScanner(file)

	// Increase buffer size for large JSON lines
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		if limit >= 0 && len(records) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var record LabeledRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(records), "total_lines", lineNum)

	return records, nil
}

// loadParquet loads records from a Parquet file
func (l *Loader) loadParquet(limit int) ([]LabeledRecord, error) {
	slog.Debug("Opening Parquet file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[LabeledRecord](pf)
	defer reader.Close()

	var records []LabeledRecord
	rows := make([]LabeledRecord, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
			if limit >= 0 && len(records) >= limit {
				records = records[:limit]
				break
			}
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(records))

	return records, nil
}
