package chart

import (
	"math/rand/v2"
	"strconv"
)

// Average returns the arithmetic mean of data, or 0 for an empty slice.
func Average(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// FormatPercentage renders value/total as a percentage with one decimal place.
func FormatPercentage(value, total float64) string {
	if total == 0 {
		return "0.0%"
	}
	return strconv.FormatFloat(value/total*100, 'f', 1, 64) + "%"
}

// ColorForValue picks the dashboard colour for value on a 0..maxValue scale.
func ColorForValue(value, maxValue float64) string {
	if maxValue <= 0 {
		maxValue = 10
	}
	switch p := value / maxValue; {
	case p < 0.3:
		return "#ef4444"
	case p < 0.6:
		return "#f59e0b"
	case p < 0.8:
		return "#10b981"
	default:
		return "#8b5cf6"
	}
}

// RandomData returns count integers drawn uniformly from [lo, hi].
func RandomData(rnd *rand.Rand, count, lo, hi int) []float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = float64(lo + rnd.IntN(hi-lo+1))
	}
	return out
}
