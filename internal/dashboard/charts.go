package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/healinghorizons/dashboard/internal/chart"
	"github.com/healinghorizons/dashboard/internal/download"
	"github.com/healinghorizons/dashboard/internal/trend"
)

// ChartInfo describes a mounted chart.
type ChartInfo struct {
	Name     string          `json:"name"`
	Kind     chart.Kind      `json:"kind"`
	Title    string          `json:"title,omitempty"`
	Labels   []string        `json:"labels,omitempty"`
	Datasets []chart.Dataset `json:"datasets,omitempty"`
	// Shares holds each slice's share of a pie chart, e.g. "12.5%".
	Shares []string `json:"shares,omitempty"`
}

type specer interface {
	Spec() chart.Spec
}

// MountCharts instantiates the presets whose containers are listed. An empty
// list mounts every preset.
func (s *Service) MountCharts(containers []string) ([]string, error) {
	if s.factory == nil {
		return nil, newError(CodeRenderFailed, "no chart renderer configured", nil)
	}
	var present map[string]bool
	if len(containers) > 0 {
		present = make(map[string]bool, len(containers))
		for _, c := range containers {
			present[strings.TrimSpace(c)] = true
		}
	}
	mounted, err := chart.Mount(s.charts, s.presets, present, s.gen, s.factory)
	if err != nil {
		return mounted, newError(CodeRenderFailed, "mount charts", err)
	}
	return mounted, nil
}

// Charts lists mounted charts.
func (s *Service) Charts() []ChartInfo {
	names := s.charts.Names()
	out := make([]ChartInfo, 0, len(names))
	for _, name := range names {
		info := ChartInfo{Name: name}
		if h, ok := s.charts.Get(name); ok {
			if sp, ok := h.(specer); ok {
				spec := sp.Spec()
				info.Kind, info.Title, info.Labels, info.Datasets = spec.Kind, spec.Title, spec.Labels, spec.Datasets
				if spec.Kind == chart.KindPie && len(spec.Datasets) > 0 {
					info.Shares = shares(spec.Datasets[0].Data)
				}
			}
		}
		out = append(out, info)
	}
	return out
}

// Chart describes one mounted chart.
func (s *Service) Chart(name string) (ChartInfo, error) {
	for _, c := range s.Charts() {
		if c.Name == name {
			return c, nil
		}
	}
	return ChartInfo{}, newError(CodeChartNotFound, fmt.Sprintf("chart %q is not mounted", name), nil)
}

// UpdateChart replaces the chart's primary series. An unknown chart is a silent no-op.
func (s *Service) UpdateChart(name string, series []float64) (bool, error) {
	if err := s.requireNonEmpty(name, "name"); err != nil {
		return false, err
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false, newError(CodeValidation, fmt.Sprintf("series[%d] is not a finite number", i), nil)
		}
	}
	found, err := s.charts.Update(name, series)
	if err != nil {
		return found, newError(CodeRenderFailed, "redraw "+name, err)
	}
	return found, nil
}

// SampleChart fills the chart's primary series with random integers in
// [lo, hi], one per label. An unknown chart is a silent no-op.
func (s *Service) SampleChart(name string, lo, hi int) (bool, error) {
	info, err := s.Chart(name)
	if err != nil {
		return false, nil
	}
	n := len(info.Labels)
	if n == 0 && len(info.Datasets) > 0 {
		n = len(info.Datasets[0].Data)
	}
	var series []float64
	s.gen.Draw(func(rnd *rand.Rand) {
		series = chart.RandomData(rnd, n, lo, hi)
	})
	return s.UpdateChart(name, series)
}

func shares(values []float64) []string {
	var total float64
	for _, v := range values {
		total += v
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = chart.FormatPercentage(v, total)
	}
	return out
}

// ResizeCharts records the new viewport size and schedules a debounced resize.
func (s *Service) ResizeCharts(width, height int) error {
	if width <= 0 || height <= 0 {
		return newError(CodeValidation, "width and height must be positive", nil)
	}
	s.viewport.Set(width, height)
	s.resize.Trigger()
	return nil
}

// ViewportSize returns the current layout size.
func (s *Service) ViewportSize() (int, int) { return s.viewport.Size() }

// ExportChart delivers the chart image to the configured downloads. An unknown
// chart is a silent no-op and reports false.
func (s *Service) ExportChart(ctx context.Context, name, format string) (bool, error) {
	if s.downloads == nil {
		return false, newError(CodeStorageFailed, "no download target configured", nil)
	}
	return s.exportTo(ctx, name, format, s.downloads)
}

// RenderChart renders the chart into memory and returns the file that would be downloaded.
func (s *Service) RenderChart(ctx context.Context, name, format string) (download.File, error) {
	var buf download.Buffer
	found, err := s.exportTo(ctx, name, format, &buf)
	if err != nil {
		return download.File{}, err
	}
	if !found {
		return download.File{}, newError(CodeChartNotFound, fmt.Sprintf("chart %q is not mounted", name), nil)
	}
	return buf.Files()[0], nil
}

func (s *Service) exportTo(ctx context.Context, name, format string, dl chart.Downloader) (bool, error) {
	if err := s.requireNonEmpty(name, "name"); err != nil {
		return false, err
	}
	if _, ok := s.charts.Get(name); !ok {
		return false, nil
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" {
		if _, ok := chart.ContentType(format); !ok {
			return false, newError(CodeValidation, fmt.Sprintf("unsupported format %q", format), nil)
		}
	}
	found, err := s.charts.Export(ctx, name, format, dl)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return found, err
		}
		return found, newError(CodeRenderFailed, "export "+name, err)
	}
	return found, nil
}

// DestroyCharts tears down every chart.
func (s *Service) DestroyCharts() error {
	if err := s.charts.DestroyAll(); err != nil {
		return newError(CodeRenderFailed, "destroy charts", err)
	}
	return nil
}

// Trend generates a synthetic recovery curve.
func (s *Service) Trend(length int, volatility float64) ([]float64, []string, error) {
	data, err := s.gen.Generate(length, volatility)
	if err != nil {
		return nil, nil, newError(CodeValidation, err.Error(), err)
	}
	return data, trend.Labels(length), nil
}
