// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/jonathan/ecms-scraper/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunPlan outputs the run parameters before scraping starts.
func (p *Printer) PrintRunPlan(runID string, startYear, endYear int, srcs []sources.Source) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", runID))
	sb.WriteString(fmt.Sprintf("Years:    %d - %d\n", startYear, endYear))
	sb.WriteString("\n")
	sb.WriteString("Sources:\n")
	for _, s := range srcs {
		sb.WriteString(fmt.Sprintf("  • %s\n", s))
	}

	p.printBox("SCRAPE PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResultTable outputs a summary of one source's records with a few samples.
func (p *Printer) PrintResultTable(table *types.ResultTable) {
	if table == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Records:  %d\n", len(table.Records)))
	sb.WriteString(fmt.Sprintf("Columns:  %d\n", len(table.Columns)))

	if len(table.Records) > 0 {
		sb.WriteString("\n")
		count := min(len(table.Records), maxItemsToShow)
		for i := 0; i < count; i++ {
			rec := table.Records[i]
			agreement := rec.AgreementNo
			if agreement == "" {
				agreement = "(no agreement no.)"
			}
			sb.WriteString(fmt.Sprintf("• %s  %s\n", rec.ExecutedDate, agreement))
			if rec.Consultant != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", rec.Consultant))
			}
		}
		if len(table.Records) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more records\n", len(table.Records)-maxItemsToShow))
		}
	}

	p.printBox(strings.ToUpper(string(table.Source)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs per-source record counts after a run.
func (p *Printer) PrintRunSummary(tables []types.ResultTable) {
	var sb strings.Builder
	total := 0
	for _, t := range tables {
		sb.WriteString(fmt.Sprintf("%-44s %6d\n", t.Source, len(t.Records)))
		total += len(t.Records)
	}
	sb.WriteString(fmt.Sprintf("%-44s %6d", "Total", total))

	p.printBox("RUN SUMMARY", sb.String())
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
