package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/jonathan/ecms-scraper/internal/types"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	table := supplementsTable()

	require.NoError(t, WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Columns, rows[0])
	assert.Equal(t, table.Records[0].Row(table.Columns), rows[1])
	assert.Equal(t, "E01234", rows[1][3])
}

func TestWriteXLSX_EmptyTable(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteXLSX(&buf, types.NewResultTable(sources.WorkOrderAmendments)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.ColumnsFor(sources.WorkOrderAmendments), rows[0])
}

func TestWriteFiles_XLSX(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteFiles(dir, testRun(), []types.ResultTable{supplementsTable()}, []string{FormatXLSX})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "Executed_Legal_Supplements.xlsx")}, written)

	f, err := excelize.OpenFile(written[0])
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
