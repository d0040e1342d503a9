// Package listing reads ECMS search result pages: which rows fall inside the
// requested year range, where their detail pages live, and how many pages there are.
package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/ecms-scraper/internal/sources"
)

// ExecutedDateLayout is the layout of the execution date column. Month and
// day may be zero-padded or not.
const ExecutedDateLayout = "1/2/2006"

const (
	// minColumns is the fewest cells a result row has; anything shorter is layout.
	minColumns = 5
	// executedColumn holds the execution date.
	executedColumn = 3
	// linkColumn holds the detail page anchor.
	linkColumn = 0
)

// PageInfoSelector locates the "Page X of Y" cell.
const PageInfoSelector = "td.paging.center.middle"

var pageInfoPattern = regexp.MustCompile(`Page \d+ of (\d+)`)

// Row is a retained listing row.
type Row struct {
	Executed time.Time
	Link     string
}

// Filter selects rows by execution year and resolves their links against BaseURL.
type Filter struct {
	BaseURL   string
	StartYear int
	EndYear   int
}

// InRange reports whether t's year is within [StartYear, EndYear].
func (f Filter) InRange(t time.Time) bool {
	return t.Year() >= f.StartYear && t.Year() <= f.EndYear
}

// Rows scans every table row of doc in order. Rows that are too short, have
// no parseable date, fall outside the year range, or have no usable link are skipped.
func (f Filter) Rows(doc *goquery.Document) []Row {
	rows := make([]Row, 0)
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < minColumns {
			return
		}

		executed, err := ParseExecutedDate(cells.Eq(executedColumn).Text())
		if err != nil {
			return
		}
		if !f.InRange(executed) {
			return
		}

		href, exists := cells.Eq(linkColumn).Find("a").First().Attr("href")
		if !exists {
			return
		}
		link, ok := sources.ResolveLink(f.BaseURL, href)
		if !ok {
			return
		}

		rows = append(rows, Row{Executed: executed, Link: link})
	})
	return rows
}

// ParseRows parses a listing page and applies f to it.
func ParseRows(rawHTML string, f Filter) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}
	return f.Rows(doc), nil
}

// ParseExecutedDate parses an M/D/YYYY or MM/DD/YYYY cell value.
func ParseExecutedDate(s string) (time.Time, error) {
	return time.Parse(ExecutedDateLayout, strings.TrimSpace(s))
}

// TotalPages returns Y from the "Page X of Y" cell, or 1 when the cell is
// missing or unreadable.
func TotalPages(doc *goquery.Document) int {
	cell := doc.Find(PageInfoSelector).First()
	if cell.Length() == 0 {
		return 1
	}
	m := pageInfoPattern.FindStringSubmatch(strings.TrimSpace(cell.Text()))
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseTotalPages is TotalPages over raw HTML. Parse failures count as one page.
func ParseTotalPages(rawHTML string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return 1
	}
	return TotalPages(doc)
}
