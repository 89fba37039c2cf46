package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const (
	FormatCSV     = "csv"
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
)

// FormatFor guesses the format from a file extension.
func FormatFor(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case FormatCSV, FormatJSONL, FormatParquet:
		return ext, nil
	case "json":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .csv, .jsonl, .parquet)", filepath.Ext(path))
	}
}

// Write encodes rows to w in format.
func Write(w io.Writer, format string, rows []Row) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSONL:
		return WriteJSONL(w, rows)
	case FormatParquet:
		return WriteParquet(w, rows)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile creates path and writes rows to it.
func WriteFile(path, format string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := Write(file, format, rows); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}

var csvHeader = []string{"frame", "index", "swing", "feature", "x", "y"}

func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Frame, strconv.Itoa(r.Index), r.Swing, r.Feature, "", ""}
		if r.Feature != "" {
			record[4] = strconv.Itoa(r.X)
			record[5] = strconv.Itoa(r.Y)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func WriteJSONL(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	for _, r := range rows {
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode row for %s: %w", r.Frame, err)
		}
	}
	return nil
}

func WriteParquet(w io.Writer, rows []Row) error {
	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
