// Package pdf renders caller-supplied HTML to an A4 PDF with headless Chrome.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"

	"github.com/resumate/resumate/pkg/logger"
	"github.com/resumate/resumate/pkg/metrics"
)

// A4 in inches; margins 20mm top/bottom and 15mm left/right.
const (
	paperWidth   = 8.27
	paperHeight  = 11.69
	marginTopBot = 20.0 / 25.4
	marginSides  = 15.0 / 25.4
)

// Renderer turns an HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer launches a fresh headless browser per render. A weighted
// semaphore bounds how many run at once.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
	idleWait time.Duration
	sem      *semaphore.Weighted
}

// NewChromeRenderer returns a renderer. execPath may be empty to use the
// browser found on PATH.
func NewChromeRenderer(execPath string, timeout time.Duration, maxConcurrent int) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ChromeRenderer{
		execPath: execPath,
		timeout:  timeout,
		idleWait: 10 * time.Second,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) (out []byte, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.PDFRenders.WithLabelValues(outcome).Inc()
		metrics.PDFRenderSeconds.Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a browser slot: %w", err)
	}
	defer r.sem.Release(1)

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(cctx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	var pdfBuf []byte
	err = chromedp.Run(cctx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-idle:
			case <-time.After(r.idleWait):
				logger.Warnf("pdf: network not idle after %s; printing anyway", r.idleWait)
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTopBot).
				WithMarginBottom(marginTopBot).
				WithMarginLeft(marginSides).
				WithMarginRight(marginSides).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdfBuf, nil
}
