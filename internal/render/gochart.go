// Package render draws dashboard charts with go-chart and encodes them for export.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"math"
	"strconv"
	"strings"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/healinghorizons/dashboard/internal/chart"
)

// ErrDestroyed is returned by operations on a destroyed handle.
var ErrDestroyed = errors.New("render: chart handle destroyed")

const jpegQuality = 90

// SizeFunc reports the container size a chart lays itself out in.
type SizeFunc func() (width, height int)

// Option configures a Handle.
type Option func(*Handle)

// WithRasterizer routes PNG and JPEG exports through r instead of the built-in rasterizer.
func WithRasterizer(r Rasterizer) Option {
	return func(h *Handle) { h.raster = r }
}

// Handle is a chart.Handle backed by go-chart.
type Handle struct {
	mu            sync.Mutex
	spec          chart.Spec
	size          SizeFunc
	raster        Rasterizer
	width, height int
	frame         []byte
	destroyed     bool
}

// New builds a handle for a materialized spec and draws the first frame.
func New(spec chart.Spec, size SizeFunc, opts ...Option) (*Handle, error) {
	if size == nil {
		size = func() (int, int) { return 800, 400 }
	}
	h := &Handle{spec: spec, size: size}
	for _, opt := range opts {
		opt(h)
	}
	h.width, h.height = size()
	if err := h.redrawLocked(); err != nil {
		return nil, err
	}
	return h, nil
}

// Factory returns a chart.Factory producing go-chart handles sized by size.
func Factory(size SizeFunc, opts ...Option) chart.Factory {
	return func(spec chart.Spec) (chart.Handle, error) {
		return New(spec, size, opts...)
	}
}

func (h *Handle) SetPrimary(series []float64) []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.spec.Datasets) == 0 {
		h.spec.Datasets = []chart.Dataset{{Label: h.spec.Title}}
	}
	prev := h.spec.Datasets[0].Data
	h.spec.Datasets[0].Data = series
	return prev
}

func (h *Handle) Redraw() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	return h.redrawLocked()
}

func (h *Handle) Resize() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	w, ht := h.size()
	if w == h.width && ht == h.height && h.frame != nil {
		return nil
	}
	h.width, h.height = w, ht
	return h.redrawLocked()
}

func (h *Handle) Render(format string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return nil, ErrDestroyed
	}

	if h.raster != nil && format != chart.FormatSVG {
		svg, err := h.draw(gochart.SVG)
		if err != nil {
			return nil, err
		}
		return h.raster.Rasterize(svg, h.width, h.height, format)
	}

	switch format {
	case chart.FormatPNG:
		return append([]byte(nil), h.frame...), nil
	case chart.FormatSVG:
		return h.draw(gochart.SVG)
	case chart.FormatJPEG:
		return pngToJPEG(h.frame)
	default:
		return nil, fmt.Errorf("render: unsupported format %q", format)
	}
}

func (h *Handle) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.frame = nil
	return nil
}

// Spec returns a copy of the chart's current definition.
func (h *Handle) Spec() chart.Spec {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.spec
	out.Datasets = append([]chart.Dataset(nil), h.spec.Datasets...)
	return out
}

func (h *Handle) redrawLocked() error {
	frame, err := h.draw(gochart.PNG)
	if err != nil {
		return err
	}
	h.frame = frame
	return nil
}

func (h *Handle) draw(rp gochart.RendererProvider) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch h.spec.Kind {
	case chart.KindBar:
		err = h.drawBar(rp, &buf)
	case chart.KindPie:
		err = h.drawPie(rp, &buf)
	default:
		err = h.drawLine(rp, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", h.spec.Name, err)
	}
	return buf.Bytes(), nil
}

func (h *Handle) drawLine(rp gochart.RendererProvider, buf *bytes.Buffer) error {
	n := h.longestDataset()
	series := make([]gochart.Series, 0, len(h.spec.Datasets))
	for _, ds := range h.spec.Datasets {
		if len(ds.Data) == 0 {
			continue
		}
		xs, ys := indexSeries(ds.Data)
		style := gochart.Style{
			StrokeColor: hexColor(ds.Color, drawing.ColorBlue),
			StrokeWidth: 3,
			DotWidth:    4,
			DotColor:    hexColor(ds.Color, drawing.ColorBlue),
		}
		if ds.Dashed {
			style.StrokeDashArray = []float64{5, 5}
		}
		series = append(series, gochart.ContinuousSeries{Name: ds.Label, XValues: xs, YValues: ys, Style: style})
	}
	if len(series) == 0 {
		// go-chart refuses to draw without a series.
		series = append(series, gochart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style:   gochart.Style{StrokeColor: drawing.ColorTransparent},
		})
		n = 2
	}

	graph := gochart.Chart{
		Title:  h.spec.Title,
		Width:  h.width,
		Height: h.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Ticks: h.ticks(n),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: h.yMax()},
		},
		Series: series,
	}
	if len(series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return graph.Render(rp, buf)
}

func (h *Handle) drawBar(rp gochart.RendererProvider, buf *bytes.Buffer) error {
	n := h.longestDataset()
	if len(h.spec.Datasets) > 1 {
		bars := make([]gochart.StackedBar, 0, n)
		for i := 0; i < n; i++ {
			sb := gochart.StackedBar{Name: h.label(i)}
			for _, ds := range h.spec.Datasets {
				if i >= len(ds.Data) {
					continue
				}
				sb.Values = append(sb.Values, gochart.Value{
					Label: ds.Label,
					Value: ds.Data[i],
					Style: gochart.Style{FillColor: hexColor(ds.Color, drawing.ColorBlue), StrokeColor: drawing.ColorWhite},
				})
			}
			bars = append(bars, sb)
		}
		graph := gochart.StackedBarChart{
			Title:  h.spec.Title,
			Width:  h.width,
			Height: h.height,
			Bars:   bars,
		}
		return graph.Render(rp, buf)
	}

	ds := h.spec.Datasets[0]
	values := make([]gochart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		values = append(values, gochart.Value{
			Label: h.label(i),
			Value: v,
			Style: gochart.Style{FillColor: hexColor(ds.Color, drawing.ColorBlue), StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		values = append(values, gochart.Value{Label: "", Value: 0})
	}
	graph := gochart.BarChart{
		Title:      h.spec.Title,
		Width:      h.width,
		Height:     h.height,
		BarWidth:   max(8, h.width/(3*len(values))),
		BarSpacing: max(4, h.width/(3*len(values))),
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: h.yMax()}},
		Bars:       values,
	}
	return graph.Render(rp, buf)
}

func (h *Handle) drawPie(rp gochart.RendererProvider, buf *bytes.Buffer) error {
	ds := h.spec.Datasets[0]
	values := make([]gochart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		// go-chart cannot lay out zero-sized slices.
		if v <= 0 {
			continue
		}
		color := ds.Color
		if i < len(h.spec.Palette) {
			color = h.spec.Palette[i]
		}
		values = append(values, gochart.Value{
			Label: h.label(i),
			Value: v,
			Style: gochart.Style{FillColor: hexColor(color, drawing.ColorBlue), StrokeColor: drawing.ColorWhite, StrokeWidth: 3},
		})
	}
	if len(values) == 0 {
		values = append(values, gochart.Value{Label: "No data", Value: 1, Style: gochart.Style{FillColor: drawing.ColorFromHex("e2e8f0")}})
	}
	graph := gochart.PieChart{
		Title:  h.spec.Title,
		Width:  h.width,
		Height: h.height,
		Values: values,
	}
	return graph.Render(rp, buf)
}

func (h *Handle) longestDataset() int {
	n := 0
	for _, ds := range h.spec.Datasets {
		n = max(n, len(ds.Data))
	}
	return n
}

func (h *Handle) label(i int) string {
	if i < len(h.spec.Labels) {
		return h.spec.Labels[i]
	}
	return strconv.Itoa(i + 1)
}

func (h *Handle) ticks(n int) []gochart.Tick {
	ticks := make([]gochart.Tick, n)
	for i := range ticks {
		ticks[i] = gochart.Tick{Value: float64(i), Label: h.label(i)}
	}
	return ticks
}

// yMax returns the configured ceiling or one derived from the data.
func (h *Handle) yMax() float64 {
	top := h.spec.YMax
	for _, ds := range h.spec.Datasets {
		for _, v := range ds.Data {
			top = math.Max(top, v)
		}
	}
	if top <= 0 {
		return 1
	}
	return top
}

// indexSeries plots data against its index. A single point is widened to two so
// go-chart can compute a non-zero x range.
func indexSeries(data []float64) ([]float64, []float64) {
	if len(data) == 1 {
		return []float64{0, 1}, []float64{data[0], data[0]}
	}
	xs := make([]float64, len(data))
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs, append([]float64(nil), data...)
}

func hexColor(hex string, fallback drawing.Color) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return fallback
	}
	return drawing.ColorFromHex(hex)
}

func pngToJPEG(frame []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("render: decode frame: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("render: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
