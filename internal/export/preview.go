package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jonathan/ecms-scraper/internal/types"
)

// maxCellWidth caps preview columns so long consultant names and payment text stay readable.
const maxCellWidth = 40

// NewTable returns a rounded table writer mirrored to w.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderPreview prints the first limit records of a result table. A limit of zero or less prints all records.
func RenderPreview(w io.Writer, rt types.ResultTable, limit int) {
	t := NewTable(w)
	t.SetTitle(string(rt.Source))

	header := make(table.Row, len(rt.Columns))
	configs := make([]table.ColumnConfig, len(rt.Columns))
	for i, c := range rt.Columns {
		header[i] = c
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			WidthMax:         maxCellWidth,
			WidthMaxEnforcer: text.Trim,
		}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	rows := rt.Rows()
	shown := len(rows)
	if limit > 0 && limit < shown {
		shown = limit
	}
	for _, r := range rows[:shown] {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"records", len(rows)})
	t.Render()
}
