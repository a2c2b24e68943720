package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/nhle/eml2pdf/internal/model"
)

// Paper dimensions in inches.
const (
	letterWidthIn  = 8.5
	letterHeightIn = 11.0
	a4WidthIn      = 8.27
	a4HeightIn     = 11.69
	pageMarginIn   = 0.75
)

// chromeBinaries are the executable names probed for a usable browser.
var chromeBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// ChromeEngine renders assembled HTML documents to PDF with a headless
// browser. Availability is determined once at construction and never
// changes afterwards; callers inject the engine where it is needed.
type ChromeEngine struct {
	execPath string
}

// DetectChrome probes PATH for a Chrome/Chromium binary and returns an
// engine bound to the first match. The returned engine reports
// unavailable when no binary was found.
func DetectChrome() *ChromeEngine {
	for _, name := range chromeBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return &ChromeEngine{execPath: path}
		}
	}
	return &ChromeEngine{}
}

// Available reports whether a browser binary was found at startup.
func (e *ChromeEngine) Available() bool {
	return e != nil && e.execPath != ""
}

// RenderPDF writes docHTML as a paginated PDF at outputPath. Any browser
// failure is returned as an error value; the engine never panics outward.
func (e *ChromeEngine) RenderPDF(
	ctx context.Context,
	docHTML string,
	outputPath string,
	cfg model.ConversionConfig,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chrome render panicked: %v", r)
		}
	}()

	if !e.Available() {
		return fmt.Errorf("no chrome binary available")
	}

	// Chrome loads the document from a temp file; data: URLs choke on
	// large inlined images.
	htmlPath := filepath.Join(os.TempDir(), fmt.Sprintf("eml2pdf-%s.html", uuid.New().String()))
	if err := os.WriteFile(htmlPath, []byte(docHTML), 0o600); err != nil {
		return fmt.Errorf("writing temp HTML: %w", err)
	}
	defer os.Remove(htmlPath)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(e.execPath),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	width, height := letterWidthIn, letterHeightIn
	if cfg.IsA4() {
		width, height = a4WidthIn, a4HeightIn
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(pageMarginIn).
				WithMarginBottom(pageMarginIn).
				WithMarginLeft(pageMarginIn).
				WithMarginRight(pageMarginIn).
				WithPrintBackground(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return fmt.Errorf("chrome render: %w", err)
	}

	if err := os.WriteFile(outputPath, pdf, 0o644); err != nil {
		return fmt.Errorf("writing PDF %s: %w", outputPath, err)
	}

	return nil
}
