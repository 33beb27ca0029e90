package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// screenshotQuality must stay 100: chromedp emits PNG only at quality
// 100 and JPEG at anything lower, and the diff stage decodes PNG only.
// A lossy capture would also dirty the pixel mask on identical pages.
const screenshotQuality = 100

// Capturer takes a full-page screenshot of a URL.
type Capturer interface {
	Capture(ctx context.Context, url, outputPath string) error
}

// Chrome captures screenshots with a headless Chrome instance.
type Chrome struct {
	timeout time.Duration
	width   int64
	height  int64
}

// ChromeOption configures a Chrome capturer.
type ChromeOption func(*Chrome)

// WithTimeout sets the per-capture timeout.
func WithTimeout(d time.Duration) ChromeOption {
	return func(c *Chrome) { c.timeout = d }
}

// WithViewport sets the browser viewport size.
func WithViewport(width, height int64) ChromeOption {
	return func(c *Chrome) {
		c.width = width
		c.height = height
	}
}

// NewChrome creates a headless-Chrome capturer with a desktop viewport.
func NewChrome(opts ...ChromeOption) *Chrome {
	c := &Chrome{
		timeout: 60 * time.Second,
		width:   1280,
		height:  800,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Capture navigates to url and writes a full-page PNG to outputPath.
func (c *Chrome) Capture(ctx context.Context, url, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating screenshot directory: %w", err)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, c.timeout)
	defer cancelRun()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(c.width, c.height),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&buf, screenshotQuality),
	)
	if err != nil {
		return fmt.Errorf("capturing %s: %w", url, err)
	}

	if err := os.WriteFile(outputPath, buf, 0o644); err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}
	return nil
}
