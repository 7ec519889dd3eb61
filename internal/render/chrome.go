package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/healinghorizons/dashboard/internal/chart"
)

// Rasterizer converts an SVG rendering into a raster image format.
type Rasterizer interface {
	Rasterize(svg []byte, width, height int, format string) ([]byte, error)
}

// ChromeRasterizer screenshots SVG renderings in a headless Chromium over CDP.
// Text shaping and antialiasing match what the dashboard page shows.
type ChromeRasterizer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
}

// NewChromeRasterizer attaches to the browser at cdpURL, or launches a headless
// one when cdpURL is empty.
func NewChromeRasterizer(cdpURL string, timeout time.Duration) *ChromeRasterizer {
	if timeout < time.Second {
		timeout = time.Second
	}
	r := &ChromeRasterizer{timeout: timeout}
	if cdpURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cdpURL)
		slog.Info("chart rasterizer using remote browser", "cdp_url", cdpURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.DisableGPU)
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		slog.Info("chart rasterizer using headless browser")
	}
	return r
}

func (r *ChromeRasterizer) Rasterize(svg []byte, width, height int, format string) ([]byte, error) {
	var shotFormat page.CaptureScreenshotFormat
	switch format {
	case chart.FormatPNG:
		shotFormat = page.CaptureScreenshotFormatPng
	case chart.FormatJPEG:
		shotFormat = page.CaptureScreenshotFormatJpeg
	default:
		return nil, fmt.Errorf("rasterize: unsupported format %q", format)
	}

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	defer tabCancel()
	ctx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	var out []byte
	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(svgPageURL(svg)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			shot := page.CaptureScreenshot().WithFormat(shotFormat)
			if shotFormat == page.CaptureScreenshotFormatJpeg {
				shot = shot.WithQuality(jpegQuality)
			}
			data, err := shot.Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	return out, nil
}

// Close shuts down the browser allocator.
func (r *ChromeRasterizer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func svgPageURL(svg []byte) string {
	html := `<!doctype html><html><body style="margin:0;background:#fff">` + string(svg) + `</body></html>`
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
}
