package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/ecms-scraper/internal/types"
)

// SheetName is the worksheet every table is written to.
const SheetName = "Sheet1"

// WriteXLSX writes the table as a single-sheet workbook: a header row, then one row per record.
func WriteXLSX(w io.Writer, table types.ResultTable) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeSheetRow(f, 1, table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range table.Rows() {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &row)
}
