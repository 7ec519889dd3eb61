package chart

import (
	"context"
	"math"
	"strconv"
	"time"
)

// CounterFrame formats the counter value at progress p in [0, 1].
func CounterFrame(start, end int, p float64) string {
	p = math.Max(0, math.Min(1, p))
	v := int(math.Floor(p*float64(end-start) + float64(start)))
	return strconv.Itoa(v) + "%"
}

// Animate emits counter frames from start to end over duration, one per tick.
// The final frame is always end. It returns ctx.Err() if cancelled first.
func Animate(ctx context.Context, start, end int, duration, tick time.Duration, emit func(string)) error {
	if duration <= 0 {
		emit(CounterFrame(start, end, 1))
		return nil
	}
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}

	began := time.Now()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	emit(CounterFrame(start, end, 0))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			p := float64(now.Sub(began)) / float64(duration)
			emit(CounterFrame(start, end, p))
			if p >= 1 {
				return nil
			}
		}
	}
}
