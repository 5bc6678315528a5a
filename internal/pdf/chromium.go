package pdf

import (
	"context"
	"encoding/base64"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const DefaultPrintTimeout = 30 * time.Second

// Printer turns a standalone HTML document into PDF bytes.
type Printer interface {
	Print(ctx context.Context, htmlDoc string) ([]byte, error)
}

// ChromiumPrinter prints through a headless Chromium driven by chromedp.
// Each call starts and tears down its own browser.
type ChromiumPrinter struct {
	chromePath string
	timeout    time.Duration
}

// NewChromiumPrinter uses chromePath when set, otherwise the first browser
// found in the usual install locations, otherwise chromedp's own lookup.
func NewChromiumPrinter(chromePath string, timeout time.Duration) *ChromiumPrinter {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	if timeout <= 0 {
		timeout = DefaultPrintTimeout
	}
	return &ChromiumPrinter{chromePath: chromePath, timeout: timeout}
}

func (p *ChromiumPrinter) Print(ctx context.Context, htmlDoc string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if p.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(p.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var out []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			header := `<div style="width:100%;text-align:right;font-size:8px;color:#6E86A3;padding-right:12px;">Veridian Group &middot; Confidential</div>`
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#6E86A3;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(header).
				WithFooterTemplate(footer).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.6).
				WithMarginBottom(0.75).
				WithMarginLeft(0.6).
				WithMarginRight(0.6).
				Do(ctx)
			if err != nil {
				return err
			}
			out = buf
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return out, nil
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
