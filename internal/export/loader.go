package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Loader reads back rows written by WriteFile in JSONL or Parquet form.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads every row. A limit above zero stops after that many rows.
func (l *Loader) Load(limit int) ([]Row, error) {
	format, err := FormatFor(l.path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatParquet:
		return l.loadParquet(limit)
	case FormatJSONL:
		return l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("cannot read %s exports (supported: .parquet, .jsonl)", format)
	}
}

func (l *Loader) loadJSONL(limit int) ([]Row, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	var rows []Row
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		if limit > 0 && len(rows) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var r Row
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		rows = append(rows, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading export: %w", err)
	}

	slog.Debug("Finished reading JSONL export", "rows", len(rows), "lines", lineNum)
	return rows, nil
}

func (l *Loader) loadParquet(limit int) ([]Row, error) {
	file, err := os.Open(l.path)
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
	slog.Debug("Parquet export opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	var rows []Row
	batch := make([]Row, 128)
	for limit <= 0 || len(rows) < limit {
		n, err := reader.Read(batch)
		rows = append(rows, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return rows, nil
}
