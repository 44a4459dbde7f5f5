package pdf

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Engine renders a document at the given URL into PDF bytes
type Engine interface {
	// PrintToPDF renders the page at url and returns the PDF bytes
	PrintToPDF(ctx context.Context, url string) ([]byte, error)
}

// ChromeEngine renders PDFs with a headless Chrome instance via the
// DevTools protocol. Chrome or Chromium must be available in PATH.
type ChromeEngine struct {
	execPath string
}

// ChromeOption configures a ChromeEngine
type ChromeOption func(*ChromeEngine)

// WithExecPath overrides the browser binary location
func WithExecPath(path string) ChromeOption {
	return func(e *ChromeEngine) {
		e.execPath = path
	}
}

// NewChromeEngine creates a headless Chrome PDF engine
func NewChromeEngine(opts ...ChromeOption) *ChromeEngine {
	e := &ChromeEngine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PrintToPDF implements Engine. Letter paper, backgrounds printed.
func (e *ChromeEngine) PrintToPDF(ctx context.Context, url string) ([]byte, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	if e.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(e.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome rendering failed: %w", err)
	}

	return pdf, nil
}
