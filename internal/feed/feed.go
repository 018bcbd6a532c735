// Package feed provides the synthetic bar source that stands in for a live
// market-data collaborator. The generator is fully deterministic: the same
// seed always yields the same series, which the numeric tests rely on.
//
// A production integration replaces Runner with a real streaming feed that
// calls the same append entry point on the pane.
package feed

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"chart-systemv1/internal/model"
	"chart-systemv1/internal/ringbuf"
)

const (
	// seedEpochMS anchors the synthetic series at a fixed instant so repeated
	// runs produce identical timestamps.
	seedEpochMS = int64(1700000000000)

	// barIntervalMS is the spacing between synthetic bars (one minute).
	barIntervalMS = int64(60_000)

	startPrice = 100.0
)

// Generator produces an endless synthetic OHLCV series: a sinusoidal drift
// with seeded random noise on top, strictly increasing minute-spaced
// timestamps. Single-goroutine use only.
type Generator struct {
	rng  *rand.Rand
	idx  int
	last model.Bar
}

// NewGenerator creates a generator with a fixed random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		last: model.Bar{
			Time:  seedEpochMS,
			Open:  startPrice,
			High:  startPrice,
			Low:   startPrice,
			Close: startPrice,
		},
	}
}

// Next produces the next bar in the series.
func (g *Generator) Next() model.Bar {
	g.idx++
	prev := g.last.Close

	drift := math.Sin(float64(g.idx)/14) * 0.6
	noise := (g.rng.Float64() - 0.5) * 0.8
	close := prev + drift + noise
	if close < 1 {
		close = 1
	}

	high := math.Max(prev, close) + g.rng.Float64()*0.4
	low := math.Min(prev, close) - g.rng.Float64()*0.4
	if low < 0.5 {
		low = 0.5
	}
	volume := 500 + 400*math.Abs(math.Sin(float64(g.idx)/9)) + g.rng.Float64()*250

	b := model.Bar{
		Time:   g.last.Time + barIntervalMS,
		Open:   prev,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
	g.last = b
	return b
}

// Seed returns the first n bars of the series. The generator continues from
// where the seed left off, so Runner appends seamlessly after it.
func (g *Generator) Seed(n int) []model.Bar {
	bars := make([]model.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, g.Next())
	}
	return bars
}

// SeedBars is the convenience used wherever an empty or invalid series must
// be replaced wholesale: a fresh default-seeded series of n bars.
func SeedBars(n int) []model.Bar {
	return NewGenerator(42).Seed(n)
}

// Runner appends generated bars into a ring buffer on a fixed interval.
type Runner struct {
	gen      *Generator
	ring     *ringbuf.Ring
	interval time.Duration

	// OnBar is an optional hook invoked after each successful push
	// (recorder, metrics). Called on the runner goroutine.
	OnBar func(model.Bar)
}

// NewRunner creates a Runner pushing into ring every interval.
func NewRunner(gen *Generator, ring *ringbuf.Ring, interval time.Duration) *Runner {
	return &Runner{gen: gen, ring: ring, interval: interval}
}

// Run blocks until ctx is cancelled, appending one bar per tick. The ticker
// is torn down on return; no other background work exists.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b := r.gen.Next()
			if !r.ring.Push(b) {
				log.Printf("[feed] ring full, dropping bar t=%d", b.Time)
				continue
			}
			if r.OnBar != nil {
				r.OnBar(b)
			}
		}
	}
}
