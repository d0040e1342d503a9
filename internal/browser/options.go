package browser

import (
	"time"

	"github.com/jonathan/ecms-scraper/internal/sources"
)

// Selectors and scripts that identify portal controls.
const (
	// GuestLinkSelector matches the anonymous-access link on the portal root.
	GuestLinkSelector = `a[href*="anonymous=true"]`
	// RowSelector matches any result table row.
	RowSelector = "table tr"
	// TimeoutContinueName is the name attribute of the session-continuation button.
	TimeoutContinueName = "timeoutContinue"
	// NextPageAlt is the alt text of the next-page image.
	NextPageAlt = "Go to next page"
)

// Default waits and pauses.
const (
	DefaultLinkTimeout    = 10 * time.Second
	DefaultDialogTimeout  = 10 * time.Second
	DefaultRowTimeout     = 10 * time.Second
	DefaultBootstrapPause = 3 * time.Second
	DefaultPopupPause     = 2 * time.Second
)

// Options configures the browser session.
type Options struct {
	BaseURL      string
	Headless     bool
	ExecPath     string // empty uses chromedp's lookup
	WindowWidth  int
	WindowHeight int

	LinkTimeout    time.Duration // guest link must become visible within this
	DialogTimeout  time.Duration // how long to wait for the confirm dialog
	RowTimeout     time.Duration // how long to wait for listing rows
	BootstrapPause time.Duration
	PopupPause     time.Duration

	Verbose bool
}

// DefaultOptions returns headless defaults matching the portal's pacing.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:        sources.DefaultBaseURL,
		Headless:       true,
		WindowWidth:    1920,
		WindowHeight:   1080,
		LinkTimeout:    DefaultLinkTimeout,
		DialogTimeout:  DefaultDialogTimeout,
		RowTimeout:     DefaultRowTimeout,
		BootstrapPause: DefaultBootstrapPause,
		PopupPause:     DefaultPopupPause,
	}
}

// withDefaults fills zero values from DefaultOptions.
func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.BaseURL == "" {
		out.BaseURL = d.BaseURL
	}
	if out.WindowWidth == 0 || out.WindowHeight == 0 {
		out.WindowWidth, out.WindowHeight = d.WindowWidth, d.WindowHeight
	}
	if out.LinkTimeout == 0 {
		out.LinkTimeout = d.LinkTimeout
	}
	if out.DialogTimeout == 0 {
		out.DialogTimeout = d.DialogTimeout
	}
	if out.RowTimeout == 0 {
		out.RowTimeout = d.RowTimeout
	}
	if out.BootstrapPause == 0 {
		out.BootstrapPause = d.BootstrapPause
	}
	if out.PopupPause == 0 {
		out.PopupPause = d.PopupPause
	}
	return &out
}
