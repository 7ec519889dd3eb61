package chart

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"github.com/healinghorizons/dashboard/internal/trend"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Kind selects how a chart is drawn.
type Kind string

const (
	KindLine  Kind = "line"
	KindBar   Kind = "bar"
	KindPie   Kind = "pie"
	KindRadar Kind = "radar"
)

// Generate asks the trend generator to fill a dataset.
type Generate struct {
	Volatility float64 `yaml:"volatility"`
}

// Dataset is one plotted series.
type Dataset struct {
	Label    string    `yaml:"label" json:"label"`
	Color    string    `yaml:"color,omitempty" json:"color,omitempty"`
	Dashed   bool      `yaml:"dashed,omitempty" json:"dashed,omitempty"`
	Data     []float64 `yaml:"data,omitempty" json:"data"`
	Generate *Generate `yaml:"generate,omitempty" json:"-"`
}

// Spec describes a chart before it is rendered.
type Spec struct {
	Name     string    `yaml:"name"`
	Kind     Kind      `yaml:"kind"`
	Title    string    `yaml:"title,omitempty"`
	Labels   []string  `yaml:"labels,omitempty"`
	YMax     float64   `yaml:"y_max,omitempty"`
	Days     int       `yaml:"days,omitempty"`
	Palette  []string  `yaml:"palette,omitempty"`
	Datasets []Dataset `yaml:"datasets"`
}

type presetFile struct {
	Charts []Spec `yaml:"charts"`
}

// DefaultPresets returns the embedded dashboard presets.
func DefaultPresets() ([]Spec, error) {
	return LoadPresets(bytes.NewReader(defaultPresets))
}

// LoadPresets decodes and validates a preset document.
func LoadPresets(r io.Reader) ([]Spec, error) {
	var f presetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("chart presets: %w", err)
	}

	seen := make(map[string]bool, len(f.Charts))
	for i, s := range f.Charts {
		if s.Name == "" {
			return nil, fmt.Errorf("chart presets: chart[%d] missing name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("chart presets: duplicate chart %q", s.Name)
		}
		seen[s.Name] = true
		switch s.Kind {
		case KindLine, KindBar, KindPie, KindRadar:
		default:
			return nil, fmt.Errorf("chart presets: chart %q has unknown kind %q", s.Name, s.Kind)
		}
		if len(s.Datasets) == 0 {
			return nil, fmt.Errorf("chart presets: chart %q has no datasets", s.Name)
		}
	}
	return f.Charts, nil
}

// Materialize fills generated datasets and day labels. The receiver is not modified.
func (s Spec) Materialize(gen *trend.Generator) (Spec, error) {
	out := s
	out.Labels = append([]string(nil), s.Labels...)
	out.Datasets = make([]Dataset, len(s.Datasets))
	for i, ds := range s.Datasets {
		ds.Data = append([]float64(nil), ds.Data...)
		if ds.Generate != nil {
			if gen == nil {
				return Spec{}, fmt.Errorf("chart %s: dataset %q needs a trend generator", s.Name, ds.Label)
			}
			data, err := gen.Generate(s.Days, ds.Generate.Volatility)
			if err != nil {
				return Spec{}, fmt.Errorf("chart %s: dataset %q: %w", s.Name, ds.Label, err)
			}
			ds.Data = data
		}
		out.Datasets[i] = ds
	}
	if len(out.Labels) == 0 && s.Days > 0 {
		out.Labels = trend.Labels(s.Days)
	}
	return out, nil
}

// Factory builds a handle for a materialized spec.
type Factory func(Spec) (Handle, error)

// Mount instantiates every preset whose container is present and registers it.
// Presets without a container are skipped; the chart is not applicable on that page.
func Mount(reg *Registry, specs []Spec, containers map[string]bool, gen *trend.Generator, build Factory) ([]string, error) {
	var mounted []string
	for _, s := range specs {
		if containers != nil && !containers[s.Name] {
			slog.Debug("chart container absent, skipping", "chart", s.Name)
			continue
		}
		full, err := s.Materialize(gen)
		if err != nil {
			return mounted, err
		}
		h, err := build(full)
		if err != nil {
			return mounted, fmt.Errorf("chart %s: build: %w", s.Name, err)
		}
		reg.Register(s.Name, h)
		mounted = append(mounted, s.Name)
	}
	return mounted, nil
}
