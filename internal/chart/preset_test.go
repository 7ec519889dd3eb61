package chart

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/healinghorizons/dashboard/internal/trend"
)

func TestDefaultPresets(t *testing.T) {
	specs, err := DefaultPresets()
	if err != nil {
		t.Fatalf("DefaultPresets() error = %v", err)
	}
	var names []string
	for _, s := range specs {
		names = append(names, s.Name)
	}
	if got, want := strings.Join(names, ","), "mood,progress,recovery,activity,radar"; got != want {
		t.Fatalf("preset names = %q; want %q", got, want)
	}
}

func TestLoadPresetsRejectsUnknownKind(t *testing.T) {
	doc := "charts:\n  - name: x\n    kind: bubble\n    datasets:\n      - label: a\n        data: [1]\n"
	if _, err := LoadPresets(strings.NewReader(doc)); err == nil {
		t.Fatal("LoadPresets() = nil error; want unknown kind error")
	}
}

func TestLoadPresetsRejectsDuplicateName(t *testing.T) {
	doc := `charts:
  - name: x
    kind: line
    datasets: [{label: a, data: [1]}]
  - name: x
    kind: bar
    datasets: [{label: b, data: [2]}]
`
	if _, err := LoadPresets(strings.NewReader(doc)); err == nil {
		t.Fatal("LoadPresets() = nil error; want duplicate error")
	}
}

func TestMaterializeFillsGeneratedRecovery(t *testing.T) {
	specs, err := DefaultPresets()
	if err != nil {
		t.Fatalf("DefaultPresets() error = %v", err)
	}
	var recovery Spec
	for _, s := range specs {
		if s.Name == "recovery" {
			recovery = s
		}
	}

	full, err := recovery.Materialize(trend.NewSeeded(5))
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if len(full.Labels) != 30 || full.Labels[29] != "Day 30" {
		t.Fatalf("labels = %v; want Day 1..Day 30", full.Labels)
	}
	for _, ds := range full.Datasets {
		if len(ds.Data) != 30 {
			t.Fatalf("dataset %q len = %d; want 30", ds.Label, len(ds.Data))
		}
	}
	if len(recovery.Datasets[0].Data) != 0 {
		t.Fatal("Materialize() modified the source spec")
	}
}

func TestMountSkipsAbsentContainers(t *testing.T) {
	specs, err := DefaultPresets()
	if err != nil {
		t.Fatalf("DefaultPresets() error = %v", err)
	}
	reg := NewRegistry()
	built := 0
	mounted, err := Mount(reg, specs, map[string]bool{"mood": true, "radar": true}, trend.NewSeeded(1),
		func(Spec) (Handle, error) { built++; return &fakeHandle{}, nil })
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if got := strings.Join(mounted, ","); got != "mood,radar" {
		t.Fatalf("mounted = %q; want mood,radar", got)
	}
	if built != 2 || reg.Len() != 2 {
		t.Fatalf("built = %d, Len() = %d; want 2, 2", built, reg.Len())
	}
}

func TestChartUtilities(t *testing.T) {
	if got := Average([]float64{2, 4, 6}); got != 4 {
		t.Fatalf("Average() = %v; want 4", got)
	}
	if got := Average(nil); got != 0 {
		t.Fatalf("Average(nil) = %v; want 0", got)
	}
	if got, want := FormatPercentage(1, 8), "12.5%"; got != want {
		t.Fatalf("FormatPercentage() = %q; want %q", got, want)
	}
	cases := []struct {
		value float64
		want  string
	}{
		{2, "#ef4444"},
		{5, "#f59e0b"},
		{7, "#10b981"},
		{9, "#8b5cf6"},
	}
	for _, tc := range cases {
		if got := ColorForValue(tc.value, 10); got != tc.want {
			t.Fatalf("ColorForValue(%v) = %q; want %q", tc.value, got, tc.want)
		}
	}

	rnd := rand.New(rand.NewPCG(1, 2))
	for _, v := range RandomData(rnd, 50, 3, 7) {
		if v < 3 || v > 7 {
			t.Fatalf("RandomData value %v outside [3, 7]", v)
		}
	}
}

func TestAnimateEndsAtTarget(t *testing.T) {
	var frames []string
	err := Animate(context.Background(), 0, 87, 20*time.Millisecond, time.Millisecond, func(f string) {
		frames = append(frames, f)
	})
	if err != nil {
		t.Fatalf("Animate() error = %v", err)
	}
	if frames[0] != "0%" {
		t.Fatalf("first frame = %q; want 0%%", frames[0])
	}
	if got := frames[len(frames)-1]; got != "87%" {
		t.Fatalf("last frame = %q; want 87%%", got)
	}
}

func TestAnimateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Animate(ctx, 0, 100, time.Hour, time.Millisecond, func(string) {})
	if err == nil {
		t.Fatal("Animate() = nil; want context error")
	}
}
