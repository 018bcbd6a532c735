// Package indicator computes technical indicator series over OHLCV bars.
//
// Every function takes the full bar (or value) slice and returns output
// slices index-aligned with it: len(out) == len(in) always, with NaN filling
// the positions before an indicator's warm-up window. Functions never panic
// and return empty structures for empty input, so callers can feed them
// whatever the current visible window happens to be.
package indicator

import (
	"math"

	"chart-systemv1/internal/model"
)

// Set bundles every indicator series the chart consumes, all computed from
// one bar window. Recomputed whenever the window changes (append, replay
// truncation); never mutated in place.
type Set struct {
	SMA20 []float64
	EMA20 []float64
	EMA50 []float64
	WMA20 []float64
	HMA20 []float64
	VWAP  []float64

	Ichimoku Ichimoku

	Bollinger Bands
	Keltner   Bands
	Donchian  Bands
	ATR14     []float64
	StdDev20  []float64

	RSI14       []float64
	StochK      []float64
	StochD      []float64
	MACD        MACDSeries
	CCI20       []float64
	ROC9        []float64
	WilliamsR14 []float64

	OBV       []float64
	AD        []float64
	MFI14     []float64
	VolumeOsc []float64

	Pivots       PivotSet
	OpeningRange Range
	Fib          FibSet
}

// Compute runs the full indicator suite over bars.
func Compute(bars []model.Bar) *Set {
	closes := model.Closes(bars)
	volumes := model.Volumes(bars)

	s := &Set{
		SMA20: SMA(closes, 20),
		EMA20: EMA(closes, 20),
		EMA50: EMA(closes, 50),
		WMA20: WMA(closes, 20),
		HMA20: HMA(closes, 20),
		VWAP:  VWAP(bars),

		Ichimoku: ComputeIchimoku(bars),

		Bollinger: BollingerBands(closes, 20, 2),
		Keltner:   KeltnerChannel(bars, 20, 14, 1.5),
		Donchian:  DonchianChannel(bars, 20),
		ATR14:     ATR(bars, 14),
		StdDev20:  StdDev(closes, 20),

		RSI14:       RSI(closes, 14),
		MACD:        MACD(closes, 12, 26, 9),
		CCI20:       CCI(bars, 20),
		ROC9:        ROC(closes, 9),
		WilliamsR14: WilliamsR(bars, 14),

		OBV:       OBV(bars),
		AD:        AccumulationDistribution(bars),
		MFI14:     MFI(bars, 14),
		VolumeOsc: VolumeOscillator(volumes, 14, 28),

		Pivots:       ComputePivots(bars),
		OpeningRange: OpeningRange(bars, 30),
		Fib:          ComputeFib(bars),
	}
	s.StochK, s.StochD = Stochastic(bars, 14, 3)
	return s
}

// nanSlice returns a slice of n NaN values. The NaN sentinel marks warm-up
// positions so output arrays stay length-aligned with their input.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
