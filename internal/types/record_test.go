package types

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestColumnsFor_OptionalColumns(t *testing.T) {
	tests := []struct {
		source   sources.Source
		present  []string
		excluded []string
	}{
		{sources.Agreements, nil, []string{ColumnSupplementNo, ColumnWorkOrderNo, ColumnAmendmentNo}},
		{sources.Supplements, []string{ColumnSupplementNo}, []string{ColumnWorkOrderNo, ColumnAmendmentNo}},
		{sources.WorkOrders, []string{ColumnWorkOrderNo}, []string{ColumnSupplementNo, ColumnAmendmentNo}},
		{sources.WorkOrderAmendments, []string{ColumnWorkOrderNo, ColumnAmendmentNo}, []string{ColumnSupplementNo}},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			cols := ColumnsFor(tt.source)
			for _, c := range tt.present {
				assert.Contains(t, cols, c)
			}
			for _, c := range tt.excluded {
				assert.NotContains(t, cols, c)
			}
			assert.Equal(t, ColumnLink, cols[0])
			assert.Equal(t, ColumnPaymentMethods, cols[len(cols)-1])
		})
	}
}

func TestColumnsFor_AmendmentOrder(t *testing.T) {
	assert.Equal(t, []string{
		"Link", "Executed Date", "Source", "Agreement No.",
		"Work Order No.", "Amendment No.",
		"Initiating Org/BP", "Cost", "Consultant", "Method(s) of Payment",
	}, ColumnsFor(sources.WorkOrderAmendments))
}

func TestRecord_Row(t *testing.T) {
	rec := Record{
		Link:         "https://example.com/1",
		ExecutedDate: "2023-04-15",
		Source:       string(sources.WorkOrders),
		AgreementNo:  "E01234",
		WorkOrderNo:  strPtr("7"),
		Cost:         "$1,000.00",
	}

	row := rec.Row(ColumnsFor(sources.WorkOrders))
	assert.Equal(t, []string{
		"https://example.com/1", "2023-04-15", "Executed Legal Work Orders", "E01234",
		"7", "", "$1,000.00", "", "",
	}, row)
}

func TestRecord_JSONOmitsDisabledOptionalFields(t *testing.T) {
	rec := Record{AgreementNo: "E00001", SupplementNo: strPtr("")}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"Supplement No.":""`)
	assert.NotContains(t, s, "Work Order No.")
	assert.NotContains(t, s, "Amendment No.")
	assert.Contains(t, s, `"Consultant":""`)
}

func TestResultTable_Rows(t *testing.T) {
	table := NewResultTable(sources.Agreements)
	assert.Empty(t, table.Rows())

	table.Records = append(table.Records, Record{Link: "a"}, Record{Link: "b"})
	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0][0])
	assert.Equal(t, "b", rows[1][0])
	assert.Len(t, rows[0], len(table.Columns))
}
