package indicator

import (
	"chart-systemv1/internal/model"
)

// OBV computes on-balance volume: cumulative volume signed by the close
// direction bar over bar.
func OBV(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	cum := 0.0
	for i, b := range bars {
		if i == 0 {
			out[i] = 0
			continue
		}
		switch {
		case b.Close > bars[i-1].Close:
			cum += b.Volume
		case b.Close < bars[i-1].Close:
			cum -= b.Volume
		}
		out[i] = cum
	}
	return out
}

// AccumulationDistribution computes the CLV-weighted cumulative volume line:
// CLV = ((close − low) − (high − close)) / (high − low).
func AccumulationDistribution(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	cum := 0.0
	for i, b := range bars {
		span := b.High - b.Low
		if span != 0 {
			clv := ((b.Close - b.Low) - (b.High - b.Close)) / span
			cum += clv * b.Volume
		}
		out[i] = cum
	}
	return out
}

// MFI computes the money flow index over a rolling window: the ratio of
// positive to negative money flow (typicalPrice · volume, signed by the
// typical-price direction). A window with zero negative flow reads 100.
func MFI(bars []model.Bar, period int) []float64 {
	n := len(bars)
	out := nanSlice(n)
	if period <= 0 || n < period+1 {
		return out
	}

	posFlow := make([]float64, n)
	negFlow := make([]float64, n)
	for i := 1; i < n; i++ {
		tp := bars[i].TypicalPrice()
		prevTP := bars[i-1].TypicalPrice()
		flow := tp * bars[i].Volume
		if tp > prevTP {
			posFlow[i] = flow
		} else if tp < prevTP {
			negFlow[i] = flow
		}
	}

	for i := period; i < n; i++ {
		var pos, neg float64
		for j := 0; j < period; j++ {
			pos += posFlow[i-j]
			neg += negFlow[i-j]
		}
		if neg == 0 {
			out[i] = 100
			continue
		}
		ratio := pos / neg
		out[i] = 100 - 100/(1+ratio)
	}
	return out
}

// VolumeOscillator computes (EMA(fast) − EMA(slow)) / EMA(slow) · 100 over
// the volume series.
func VolumeOscillator(volumes []float64, fast, slow int) []float64 {
	n := len(volumes)
	out := make([]float64, n)

	emaFast := EMA(volumes, fast)
	emaSlow := EMA(volumes, slow)
	for i := 0; i < n; i++ {
		if emaSlow[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = (emaFast[i] - emaSlow[i]) / emaSlow[i] * 100
	}
	return out
}
