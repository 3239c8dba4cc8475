// Package browser owns the headless Chrome session used to render pages.
// One session serves one run; requests for non-text resources are aborted at
// the network layer before they leave the browser.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// DefaultUserAgent is the fixed desktop user agent presented to every page
// unless overridden via configuration.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// blockedResourceTypes lists request types aborted during navigation. Only
// the document itself, scripts, and data requests (XHR/fetch) are allowed
// through so client-rendered pages still produce their text.
var blockedResourceTypes = map[network.ResourceType]bool{
	network.ResourceTypeImage:       true,
	network.ResourceTypeStylesheet:  true,
	network.ResourceTypeFont:        true,
	network.ResourceTypeMedia:       true,
	network.ResourceTypeManifest:    true,
	network.ResourceTypeTextTrack:   true,
	network.ResourceTypeEventSource: true,
	network.ResourceTypePing:        true,
	network.ResourceTypeOther:       true,
}

// Session is a scoped headless browser. Construct with New, fetch pages with
// Fetch, and always Close; the Chrome process is released on every exit path.
type Session struct {
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc

	timeout time.Duration
}

// allocatorOptions builds the Chrome launch options for a session.
func allocatorOptions(userAgent string) []chromedp.ExecAllocatorOption {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(userAgent),
	)
}

// New launches a headless browser with the given user agent and per-fetch
// navigation timeout.
func New(userAgent string, timeout time.Duration) (*Session, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOptions(userAgent)...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser process up front so launch failures surface here
	// rather than inside the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		timeout:       timeout,
	}, nil
}

// Close tears down the browser process and its allocator.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.cancelBrowser != nil {
		s.cancelBrowser()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}

// Fetch navigates a fresh tab to rawURL with resource blocking active, waits
// for minimal DOM readiness, and returns the rendered document HTML. A page
// that does not reach readiness within the session timeout fails.
func (s *Session) Fetch(ctx context.Context, rawURL string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.timeout)
	defer cancelTimeout()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(tabCtx)
			execCtx := cdp.WithExecutor(tabCtx, c.Target)
			if blockedResourceTypes[e.ResourceType] {
				_ = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
				return
			}
			_ = fetch.ContinueRequest(e.RequestID).Do(execCtx)
		}()
	})

	log.Debug().Str("url", rawURL).Dur("timeout", s.timeout).Msg("navigating")

	var html string
	err := chromedp.Run(tabCtx,
		fetch.Enable(),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	return html, nil
}
