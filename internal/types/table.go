package types

import (
	"github.com/jonathan/ecms-scraper/internal/sources"
)

// ResultTable holds the records extracted for one source, in visit order.
type ResultTable struct {
	Source  sources.Source `json:"source"`
	Columns []string       `json:"columns"`
	Records []Record       `json:"records"`
}

// NewResultTable creates an empty table with the source's column layout.
func NewResultTable(s sources.Source) ResultTable {
	return ResultTable{
		Source:  s,
		Columns: ColumnsFor(s),
		Records: []Record{},
	}
}

// Rows returns every record as a row of strings in column order.
func (t ResultTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Records))
	for _, r := range t.Records {
		rows = append(rows, r.Row(t.Columns))
	}
	return rows
}
