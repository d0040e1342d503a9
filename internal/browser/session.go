package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Session is one browser tab shared by the whole run. It is not safe for
// concurrent use; every call blocks until its action and any wait finish.
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    *Options
	dialogs chan string
}

// NewSession starts Chrome and opens a tab. Cancelling ctx closes the browser.
// Requires Chrome/Chromium to be installed on the system.
func NewSession(ctx context.Context, opts *Options) (*Session, error) {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)

	var ctxOpts []chromedp.ContextOption
	if opts.Verbose {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(log.Printf))
	}
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, ctxOpts...)

	s := &Session{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		opts:    opts,
		dialogs: make(chan string, 1),
	}
	s.listenForDialogs()

	// The first Run allocates the browser. Doing it here on the long-lived
	// context keeps later timeout contexts from owning the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		s.cancel()
		return nil, &Error{URL: opts.BaseURL, Message: "failed to start browser", Cause: err}
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Started browser session (headless=%t)", opts.Headless)
	}
	return s, nil
}

// Close shuts down the tab and the browser process.
func (s *Session) Close() {
	s.cancel()
}

// listenForDialogs accepts every JavaScript dialog the portal raises. The
// dialog message is offered to Bootstrap, which waits for it.
func (s *Session) listenForDialogs() {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventJavascriptDialogOpening)
		if !ok {
			return
		}
		select {
		case s.dialogs <- e.Message:
		default:
		}
		// Actions cannot run inside the listener.
		go func() {
			if err := chromedp.Run(s.ctx, page.HandleJavaScriptDialog(true)); err != nil && s.opts.Verbose {
				log.Printf("[BROWSER] Failed to accept dialog: %v", err)
			}
		}()
	})
}

// Bootstrap opens the portal root, follows the guest link and accepts the
// confirmation dialog if one shows up.
func (s *Session) Bootstrap() error {
	if s.opts.Verbose {
		log.Printf("[BROWSER] Establishing guest session at %s", s.opts.BaseURL)
	}

	if err := chromedp.Run(s.ctx, chromedp.Navigate(s.opts.BaseURL)); err != nil {
		return &BootstrapError{URL: s.opts.BaseURL, Message: "failed to open portal", Cause: err}
	}

	linkCtx, cancel := context.WithTimeout(s.ctx, s.opts.LinkTimeout)
	defer cancel()
	err := chromedp.Run(linkCtx,
		chromedp.WaitVisible(GuestLinkSelector, chromedp.ByQuery),
		chromedp.Click(GuestLinkSelector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err != nil {
		return &BootstrapError{
			URL:     s.opts.BaseURL,
			Message: fmt.Sprintf("guest link not clickable within %s", s.opts.LinkTimeout),
			Cause:   err,
		}
	}

	select {
	case msg := <-s.dialogs:
		if s.opts.Verbose {
			log.Printf("[BROWSER] Accepted dialog: %q", msg)
		}
	case <-time.After(s.opts.DialogTimeout):
	case <-s.ctx.Done():
		return &BootstrapError{URL: s.opts.BaseURL, Message: "session closed", Cause: s.ctx.Err()}
	}

	s.Pause(s.opts.BootstrapPause)
	return nil
}

// Navigate loads url in the session tab.
func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return &Error{URL: url, Message: "navigation failed", Cause: err}
	}
	return nil
}

// Back returns to the previous history entry.
func (s *Session) Back() error {
	if err := chromedp.Run(s.ctx, chromedp.NavigateBack()); err != nil {
		return &Error{URL: s.location(), Message: "navigate back failed", Cause: err}
	}
	return nil
}

// Pause lets the remote page settle.
func (s *Session) Pause(d time.Duration) {
	if d <= 0 {
		return
	}
	_ = chromedp.Run(s.ctx, chromedp.Sleep(d))
}

// HTML returns the current document's outer HTML.
func (s *Session) HTML() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &Error{URL: s.location(), Message: "failed to read page HTML", Cause: err}
	}
	return html, nil
}

// WaitForRows waits up to the row timeout for a table row to be present.
// A timeout means the listing has nothing more to offer.
func (s *Session) WaitForRows() bool {
	waitCtx, cancel := context.WithTimeout(s.ctx, s.opts.RowTimeout)
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitReady(RowSelector, chromedp.ByQuery)); err != nil {
		if s.opts.Verbose {
			log.Printf("[BROWSER] No table rows within %s: %v", s.opts.RowTimeout, err)
		}
		return false
	}
	return true
}

// DismissTimeoutPopup clicks the session-continuation button if it is visible.
// Reports whether a popup was handled; a missing button is not an error.
func (s *Session) DismissTimeoutPopup() bool {
	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(dismissPopupScript(TimeoutContinueName), &clicked)); err != nil {
		return false
	}
	if !clicked {
		return false
	}
	if s.opts.Verbose {
		log.Printf("[BROWSER] Dismissed session timeout popup")
	}
	s.Pause(s.opts.PopupPause)
	return true
}

// NextPage dismisses any timeout popup, then clicks the next-page link if
// it is displayed and enabled. Any failure reads as "no more pages".
func (s *Session) NextPage() bool {
	s.DismissTimeoutPopup()

	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(nextPageScript(NextPageAlt), &clicked)); err != nil {
		if s.opts.Verbose {
			log.Printf("[BROWSER] Next page error: %v", err)
		}
		return false
	}
	return clicked
}

func (s *Session) location() string {
	var loc string
	if err := chromedp.Run(s.ctx, chromedp.Location(&loc)); err != nil {
		return ""
	}
	return loc
}

func dismissPopupScript(name string) string {
	return fmt.Sprintf(`(() => {
	for (const el of document.getElementsByName(%q)) {
		if (el.getClientRects().length > 0) {
			el.click();
			return true;
		}
	}
	return false;
})()`, name)
}

func nextPageScript(alt string) string {
	return fmt.Sprintf(`(() => {
	const img = document.querySelector(%q);
	if (!img) return false;
	const link = img.closest("a");
	if (!link) return false;
	const style = window.getComputedStyle(link);
	const displayed = link.getClientRects().length > 0 && style.visibility !== "hidden";
	const enabled = !link.hasAttribute("disabled") && link.getAttribute("aria-disabled") !== "true";
	if (!displayed || !enabled) return false;
	link.click();
	return true;
})()`, fmt.Sprintf(`img[alt=%q]`, alt))
}
