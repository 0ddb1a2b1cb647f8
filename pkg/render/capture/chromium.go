// Package capture rasterizes rendered grid HTML into PNG screenshots
// with a headless Chromium instance. It implements pipeline.Capturer and
// is the only package that links the browser stack, so CLI runs without
// --format png never start a browser.
package capture

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
)

// Default capture parameters.
const (
	DefaultWidth   = 800
	DefaultHeight  = 1440
	DefaultTimeout = 30 * time.Second
)

// Chromium captures PNGs through chromedp.
type Chromium struct {
	// Timeout bounds one capture. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewChromium creates a capturer with default settings.
func NewChromium() *Chromium {
	return &Chromium{Timeout: DefaultTimeout}
}

// CapturePNG renders the HTML document in a headless browser viewport of
// the given size and returns a full-page PNG screenshot. The document is
// passed as a data URL, so no server round-trip is needed.
func (c *Chromium) CapturePNG(parent context.Context, html []byte, width, height int) ([]byte, error) {
	if len(html) == 0 {
		return nil, fmt.Errorf("capture: empty document")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	dataURL := "data:text/html;charset=utf-8," + url.PathEscape(string(html))

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Final paint settles before the screenshot.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	return png, nil
}
