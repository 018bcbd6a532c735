package indicator

import (
	"math"

	"chart-systemv1/internal/model"
)

// Bands is a generic upper/middle/lower channel triple, index-aligned with
// the input bars.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerBands computes SMA(period) ± mult·stddev(period).
func BollingerBands(values []float64, period int, mult float64) Bands {
	n := len(values)
	b := Bands{Upper: nanSlice(n), Middle: SMA(values, period), Lower: nanSlice(n)}
	if period <= 1 || n < period {
		return b
	}

	for i := period - 1; i < n; i++ {
		ma := b.Middle[i]
		sumSq := 0.0
		for j := 0; j < period; j++ {
			d := values[i-j] - ma
			sumSq += d * d
		}
		sd := math.Sqrt(sumSq / float64(period))
		b.Upper[i] = ma + mult*sd
		b.Lower[i] = ma - mult*sd
	}
	return b
}

// KeltnerChannel computes EMA(emaPeriod) ± mult·ATR(atrPeriod).
func KeltnerChannel(bars []model.Bar, emaPeriod, atrPeriod int, mult float64) Bands {
	n := len(bars)
	mid := EMA(model.Closes(bars), emaPeriod)
	atr := ATR(bars, atrPeriod)

	b := Bands{Upper: nanSlice(n), Middle: mid, Lower: nanSlice(n)}
	for i := 0; i < n; i++ {
		b.Upper[i] = mid[i] + mult*atr[i]
		b.Lower[i] = mid[i] - mult*atr[i]
	}
	return b
}

// DonchianChannel computes the rolling highest-high / lowest-low channel with
// the midline halfway between.
func DonchianChannel(bars []model.Bar, period int) Bands {
	n := len(bars)
	b := Bands{Upper: nanSlice(n), Middle: nanSlice(n), Lower: nanSlice(n)}
	if period <= 0 || n < period {
		return b
	}

	for i := period - 1; i < n; i++ {
		hh, ll := bars[i].High, bars[i].Low
		for j := i - period + 1; j < i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		b.Upper[i] = hh
		b.Lower[i] = ll
		b.Middle[i] = (hh + ll) / 2
	}
	return b
}

// TrueRange returns the true-range series. tr[0] falls back to high−low.
func TrueRange(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			out[i] = b.High - b.Low
			continue
		}
		prevClose := bars[i-1].Close
		out[i] = math.Max(b.High-b.Low,
			math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	return out
}

// ATR computes the average true range as an EMA of the true range, using the
// same first-value seeding as every other EMA here.
func ATR(bars []model.Bar, period int) []float64 {
	return EMA(TrueRange(bars), period)
}

// StdDev computes the rolling population standard deviation.
func StdDev(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 1 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		mean := 0.0
		for j := 0; j < period; j++ {
			mean += values[i-j]
		}
		mean /= float64(period)

		sumSq := 0.0
		for j := 0; j < period; j++ {
			d := values[i-j] - mean
			sumSq += d * d
		}
		out[i] = math.Sqrt(sumSq / float64(period))
	}
	return out
}
