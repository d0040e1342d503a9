// Package scraper walks ECMS search results source by source and turns each
// retained detail page into a record.
package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ecms-scraper/internal/browser"
	"github.com/jonathan/ecms-scraper/internal/extract"
	"github.com/jonathan/ecms-scraper/internal/listing"
	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/jonathan/ecms-scraper/internal/types"
)

// Browser is the page-level control the scraper needs. *browser.Session implements it.
type Browser interface {
	Bootstrap() error
	Navigate(url string) error
	Back() error
	Pause(d time.Duration)
	WaitForRows() bool
	HTML() (string, error)
	NextPage() bool
}

// Delays are the settle pauses after each kind of navigation.
type Delays struct {
	Search   time.Duration
	Detail   time.Duration
	Back     time.Duration
	NextPage time.Duration
}

// DefaultDelays returns the pacing the portal tolerates.
func DefaultDelays() Delays {
	return Delays{
		Search:   3 * time.Second,
		Detail:   2 * time.Second,
		Back:     2 * time.Second,
		NextPage: 5 * time.Second,
	}
}

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	RunID      string `json:"run_id"`
	Source     string `json:"source,omitempty"`
	Page       int    `json:"page,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
	Records    int    `json:"records"`
	Message    string `json:"message"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for a run
type Options struct {
	BaseURL    string
	Delays     Delays
	RunID      uuid.UUID
	Verbose    bool
	OnProgress ProgressCallback
}

// Scraper drives one Browser through every requested source in order.
type Scraper struct {
	browser Browser
	opts    Options
}

// New creates a Scraper. Zero option values fall back to defaults.
func New(b Browser, opts *Options) *Scraper {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.BaseURL == "" {
		o.BaseURL = sources.DefaultBaseURL
	}
	if o.Delays == (Delays{}) {
		o.Delays = DefaultDelays()
	}
	if o.RunID == uuid.Nil {
		o.RunID = uuid.New()
	}
	return &Scraper{browser: b, opts: o}
}

// RunID identifies this scraper's run in progress events and exports.
func (s *Scraper) RunID() uuid.UUID {
	return s.opts.RunID
}

// Run establishes the guest session once, then scrapes each source in order.
// Only a bootstrap failure or a cancelled ctx is returned as an error; every
// other failure shortens a table instead.
func (s *Scraper) Run(ctx context.Context, startYear, endYear int, srcs []sources.Source) ([]types.ResultTable, error) {
	if err := s.browser.Bootstrap(); err != nil {
		return nil, &Error{Message: "failed to establish guest session", Cause: err}
	}
	s.emit(ProgressEvent{Message: "Guest session established"})

	filter := listing.Filter{BaseURL: s.opts.BaseURL, StartYear: startYear, EndYear: endYear}

	tables := make([]types.ResultTable, 0, len(srcs))
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return tables, fmt.Errorf("run cancelled before %s: %w", src, err)
		}

		table, err := s.ScrapeSource(ctx, src, filter)
		tables = append(tables, table)
		if err != nil {
			return tables, err
		}
	}
	return tables, nil
}

// ScrapeSource traverses every listing page of src and visits each retained row.
// The returned error is non-nil only when ctx is cancelled.
func (s *Scraper) ScrapeSource(ctx context.Context, src sources.Source, filter listing.Filter) (types.ResultTable, error) {
	table := types.NewResultTable(src)

	searchURL := src.SearchURL(s.opts.BaseURL)
	s.emit(ProgressEvent{Source: string(src), Message: fmt.Sprintf("Opening search %s", searchURL)})
	if err := s.browser.Navigate(searchURL); err != nil {
		s.logf("Skipping %s: %v", src, err)
		return table, nil
	}
	s.browser.Pause(s.opts.Delays.Search)

	totalPages := 1
	if html, err := s.browser.HTML(); err == nil {
		totalPages = listing.ParseTotalPages(html)
	}

	for page := 1; page <= totalPages; page++ {
		if err := ctx.Err(); err != nil {
			return table, fmt.Errorf("run cancelled during %s: %w", src, err)
		}

		rows, ok := s.listingRows(filter)
		if !ok {
			break
		}

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return table, fmt.Errorf("run cancelled during %s: %w", src, err)
			}
			record, err := s.visitDetail(src, row)
			if err != nil {
				s.logf("Skipping record %s: %v", row.Link, err)
				continue
			}
			table.Records = append(table.Records, record)
		}

		s.emit(ProgressEvent{
			Source:     string(src),
			Page:       page,
			TotalPages: totalPages,
			Records:    len(table.Records),
			Message:    fmt.Sprintf("Page %d of %d: %d matching rows", page, totalPages, len(rows)),
		})

		if page >= totalPages {
			break
		}
		if !s.browser.NextPage() {
			s.logf("No next page after page %d of %d for %s", page, totalPages, src)
			break
		}
		s.browser.Pause(s.opts.Delays.NextPage)
	}

	s.emit(ProgressEvent{
		Source:  string(src),
		Records: len(table.Records),
		Message: fmt.Sprintf("Finished %s", src),
	})
	return table, nil
}

// listingRows waits for the current listing page and reads its retained rows.
// false means the page is exhausted.
func (s *Scraper) listingRows(filter listing.Filter) ([]listing.Row, bool) {
	if !s.browser.WaitForRows() {
		return nil, false
	}
	html, err := s.browser.HTML()
	if err != nil {
		s.logf("Failed to read listing page: %v", err)
		return nil, false
	}
	rows, err := listing.ParseRows(html, filter)
	if err != nil {
		s.logf("Failed to parse listing page: %v", err)
		return nil, false
	}
	return rows, true
}

// visitDetail opens one detail page, extracts its record and returns to the listing.
func (s *Scraper) visitDetail(src sources.Source, row listing.Row) (types.Record, error) {
	if err := s.browser.Navigate(row.Link); err != nil {
		return types.Record{}, err
	}
	defer func() {
		if err := s.browser.Back(); err != nil {
			s.logf("Failed to return to listing from %s: %v", row.Link, err)
		}
		s.browser.Pause(s.opts.Delays.Back)
	}()
	s.browser.Pause(s.opts.Delays.Detail)

	html, err := s.browser.HTML()
	if err != nil {
		return types.Record{}, err
	}
	doc, err := extract.ParseDocument(html)
	if err != nil {
		return types.Record{}, err
	}

	fields := extract.ExtractFields(doc, src.Config())
	return fields.Record(row.Link, row.Executed, src), nil
}

func (s *Scraper) emit(event ProgressEvent) {
	event.RunID = s.opts.RunID.String()
	if s.opts.Verbose {
		log.Printf("[SCRAPER] %s", event.Message)
	}
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(event)
	}
}

func (s *Scraper) logf(format string, args ...any) {
	if s.opts.Verbose {
		log.Printf("[SCRAPER] "+format, args...)
	}
}

// Run starts a browser session, scrapes srcs for [startYear, endYear] and closes the session.
func Run(ctx context.Context, startYear, endYear int, srcs []sources.Source, opts *Options, browserOpts *browser.Options) ([]types.ResultTable, error) {
	session, err := browser.NewSession(ctx, browserOpts)
	if err != nil {
		return nil, &Error{Message: "failed to start browser", Cause: err}
	}
	defer session.Close()

	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.BaseURL == "" && browserOpts != nil {
		o.BaseURL = browserOpts.BaseURL
	}
	return New(session, &o).Run(ctx, startYear, endYear, srcs)
}
