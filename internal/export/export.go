// Package export writes scraped result tables to CSV, JSON and spreadsheet files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/ecms-scraper/internal/schemas"
	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/jonathan/ecms-scraper/internal/types"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Run identifies the scrape a set of tables came from.
type Run struct {
	ID        uuid.UUID
	StartYear int
	EndYear   int
}

// Envelope is the JSON document written for one source.
type Envelope struct {
	RunID     string         `json:"run_id"`
	Source    sources.Source `json:"source"`
	StartYear int            `json:"start_year"`
	EndYear   int            `json:"end_year"`
	Columns   []string       `json:"columns"`
	Records   []types.Record `json:"records"`
}

// NewEnvelope wraps a table with its run metadata.
func NewEnvelope(run Run, table types.ResultTable) Envelope {
	records := table.Records
	if records == nil {
		records = []types.Record{}
	}
	return Envelope{
		RunID:     run.ID.String(),
		Source:    table.Source,
		StartYear: run.StartYear,
		EndYear:   run.EndYear,
		Columns:   table.Columns,
		Records:   records,
	}
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, table types.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(table.Rows()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// MarshalJSON renders the envelope for a table and validates it against the records schema.
func MarshalJSON(run Run, table types.ResultTable) ([]byte, error) {
	data, err := json.MarshalIndent(NewEnvelope(run, table), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := schemas.ValidateExport(data); err != nil {
		return nil, fmt.Errorf("export for %s does not validate against schema: %w", table.Source, err)
	}
	return data, nil
}

// FileName returns the output file name for a source and format.
func FileName(s sources.Source, format string) string {
	return s.FileStem() + "." + format
}

// WriteFiles writes every table in every format under dir and returns the paths written.
func WriteFiles(dir string, run Run, tables []types.ResultTable, formats []string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, table := range tables {
		for _, format := range formats {
			path := filepath.Join(dir, FileName(table.Source, format))
			if err := writeFile(path, format, run, table); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func writeFile(path, format string, run Run, table types.ResultTable) error {
	switch format {
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := WriteCSV(f, table); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		return nil
	case FormatXLSX:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := WriteXLSX(f, table); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		return nil
	case FormatJSON:
		data, err := MarshalJSON(run, table)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
