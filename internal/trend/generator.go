// Package trend produces the synthetic recovery curves shown on the dashboard.
package trend

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	Floor   = 10.0
	Ceiling = 100.0

	noiseSpan = 5.0
)

// stage is a boost applied on every iteration once index exceeds after.
type stage struct {
	after int
	boost float64
}

var stages = []stage{
	{after: 7, boost: 0.5},
	{after: 14, boost: 0.8},
	{after: 21, boost: 1.0},
}

// Generator draws noise from an injected source. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator reading from src. A nil src seeds from the clock.
func New(src rand.Source) *Generator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>7)
	}
	return &Generator{rnd: rand.New(src)}
}

// NewSeeded returns a Generator whose output is reproducible for a given seed.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate returns exactly length points, each in [Floor, Ceiling].
func (g *Generator) Generate(length int, volatility float64) ([]float64, error) {
	if length < 0 {
		return nil, fmt.Errorf("trend: length must be >= 0, got %d", length)
	}
	if volatility < 0 || math.IsNaN(volatility) || math.IsInf(volatility, 0) {
		return nil, fmt.Errorf("trend: volatility must be a finite value >= 0, got %v", volatility)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]float64, 0, length)
	current := Floor
	for i := 0; i < length; i++ {
		noise := (g.rnd.Float64()*noiseSpan - noiseSpan/2) * volatility
		current = clamp(current+noise, Floor, Ceiling)
		for _, s := range stages {
			if i > s.after {
				current += s.boost
			}
		}
		// Boosts may push past the ceiling on long sequences.
		current = clamp(current, Floor, Ceiling)
		out = append(out, math.Round(current))
	}
	return out, nil
}

// Draw runs fn with exclusive use of the generator's random source.
func (g *Generator) Draw(fn func(rnd *rand.Rand)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.rnd)
}

// Labels returns "Day 1".."Day n" axis labels matching a generated series.
func Labels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Day %d", i+1)
	}
	return labels
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
