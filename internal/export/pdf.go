package export

import (
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed print.css
var printCSS string

// PDFRenderer turns a Markdown document into a PDF.
type PDFRenderer interface {
	Render(ctx context.Context, title, markdown string) ([]byte, error)
}

type ChromiumPDFRenderer struct {
	chromePath string
	timeout    time.Duration
	md         goldmark.Markdown
}

// NewChromiumPDFRenderer uses chromePath, or the first Chromium found on the
// usual paths when chromePath is empty.
func NewChromiumPDFRenderer(chromePath string) *ChromiumPDFRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &ChromiumPDFRenderer{
		chromePath: chromePath,
		timeout:    30 * time.Second,
		md:         goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Available reports whether a Chromium binary was found.
func (r *ChromiumPDFRenderer) Available() bool {
	return r.chromePath != ""
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, title, markdown string) ([]byte, error) {
	htmlDoc, err := r.buildHTML(title, markdown)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

func (r *ChromiumPDFRenderer) buildHTML(title, markdown string) (string, error) {
	var content strings.Builder
	if err := r.md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + printCSS + "</style></head><body>" +
		"<div class='pdf-wrap'><section class='summary'>" + applyPrintLayoutHooks(content.String()) + "</section></div>" +
		"</body></html>", nil
}

var reImplementationHeading = regexp.MustCompile(`(?i)<h2([^>]*)>\s*Implementation Steps\s*</h2>`)

// applyPrintLayoutHooks keeps the implementation table on its own page.
func applyPrintLayoutHooks(contentHTML string) string {
	return reImplementationHeading.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">Implementation Steps</h2>`)
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
