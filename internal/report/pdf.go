// Package report renders a notice analysis as a printable PDF: the
// markdown report is converted to HTML with goldmark and printed through
// headless Chromium.
package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vanshsharma/civicsense/internal/notice"
)

type PDFRenderer struct {
	chromePath string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{chromePath: detectChromePath()}
}

func detectChromePath() string {
	for _, candidate := range []string{
		"chromium", "chromium-browser", "google-chrome", "google-chrome-stable",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}

// Render prints the analysis report to PDF bytes.
func (r *PDFRenderer) Render(ctx context.Context, res notice.Result) ([]byte, error) {
	htmlDoc, err := buildHTML(res)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
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
		return nil, err
	}
	return pdf, nil
}

func buildHTML(res notice.Result) (string, error) {
	markdown := notice.BuildReport(res)

	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	badge := "<span class='badge'>" + html.EscapeString(res.NoticeType) + "</span>" +
		"<span class='badge sev-" + severityClass(res.Severity) + "'>" + html.EscapeString(string(res.Severity)) + "</span>"

	return "<!doctype html><html><head><meta charset='utf-8'><title>Notice Analysis</title>" +
		"<style>" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}" +
		"body{font-family:Georgia,serif;color:#1c1917;background:#fff;padding:0.6rem;max-width:900px;margin:0 auto;}" +
		"h1{font-size:1.5rem;border-bottom:2px solid #92400e;padding-bottom:0.3rem;}" +
		"h2{font-size:1.1rem;color:#78350f;margin-top:1.2rem;}" +
		".badge{display:inline-block;background:#fef3c7;color:#78350f;border:1px solid #fcd34d;" +
		"border-radius:4px;padding:0.15rem 0.5rem;margin-right:0.4rem;font-size:0.8rem;}" +
		".badge.sev-urgent{background:#fee2e2;color:#7f1d1d;border-color:#fca5a5;}" +
		".badge.sev-action{background:#ffedd5;color:#7c2d12;border-color:#fdba74;}" +
		"ul{margin:0.3rem 0 0.8rem 1.2rem;}" +
		"@media print{@page{size:auto;margin:12mm;}body{padding:0;}}" +
		"</style></head><body>" +
		"<div class='badges'>" + badge + "</div>" +
		content.String() +
		"</body></html>", nil
}

func severityClass(s notice.Severity) string {
	switch s {
	case notice.SeverityUrgent:
		return "urgent"
	case notice.SeverityActionRequired:
		return "action"
	default:
		return "info"
	}
}
